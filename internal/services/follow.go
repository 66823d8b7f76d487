package services

import (
	"context"
	"fmt"

	"penhub/internal/repository"
)

type FollowGraph struct {
	follows repository.FollowRepository
	users   repository.UserRepository
}

func NewFollowGraph(follows repository.FollowRepository, users repository.UserRepository) *FollowGraph {
	return &FollowGraph{follows: follows, users: users}
}

// Follow 关注作者；重复关注不报错，关注自己返回 ErrSelfFollow
func (g *FollowGraph) Follow(ctx context.Context, userID, authorID uint) error {
	if userID == 0 {
		return ErrUnauthenticated
	}
	if userID == authorID {
		return ErrSelfFollow
	}
	if err := g.follows.Create(ctx, userID, authorID); err != nil {
		return fmt.Errorf("follow: %w", err)
	}
	return nil
}

// Unfollow 取消关注；不存在的关系直接忽略
func (g *FollowGraph) Unfollow(ctx context.Context, userID, authorID uint) error {
	if userID == 0 {
		return ErrUnauthenticated
	}
	if err := g.follows.Delete(ctx, userID, authorID); err != nil {
		return fmt.Errorf("unfollow: %w", err)
	}
	return nil
}

func (g *FollowGraph) IsFollowing(ctx context.Context, userID, authorID uint) (bool, error) {
	if userID == 0 || userID == authorID {
		return false, nil
	}
	return g.follows.Exists(ctx, userID, authorID)
}

// FollowedAuthors 返回 userID 关注的作者 ID（升序、去重）
func (g *FollowGraph) FollowedAuthors(ctx context.Context, userID uint) ([]uint, error) {
	if userID == 0 {
		return nil, nil
	}
	ids, err := g.follows.ListAuthorIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list followed authors: %w", err)
	}
	return ids, nil
}

func (g *FollowGraph) FollowUsername(ctx context.Context, userID uint, username string) error {
	if userID == 0 {
		return ErrUnauthenticated
	}
	author, err := g.users.GetByUsername(ctx, username)
	if err != nil {
		return notFound(err, "user "+username)
	}
	return g.Follow(ctx, userID, author.ID)
}

func (g *FollowGraph) UnfollowUsername(ctx context.Context, userID uint, username string) error {
	if userID == 0 {
		return ErrUnauthenticated
	}
	author, err := g.users.GetByUsername(ctx, username)
	if err != nil {
		return notFound(err, "user "+username)
	}
	return g.Unfollow(ctx, userID, author.ID)
}

type FollowCounts struct {
	Followers int64
	Following int64
}

func (g *FollowGraph) Counts(ctx context.Context, userID uint) (FollowCounts, error) {
	var c FollowCounts
	var err error
	if c.Followers, err = g.follows.CountFollowers(ctx, userID); err != nil {
		return c, err
	}
	if c.Following, err = g.follows.CountFollowing(ctx, userID); err != nil {
		return c, err
	}
	return c, nil
}
