package shop

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"shopfront/internal/model/shop"
	"shopfront/internal/repository"
	"shopfront/internal/service"
)

func (s *shopService) ListPosts(ctx context.Context, params ListParams) ([]*shop.Post, int64, error) {
	return s.stores.Posts.Search(ctx, repository.Query{
		Keyword:  strings.TrimSpace(params.Keyword),
		Fields:   []string{"title", "content"},
		Page:     params.Page,
		PageSize: params.PageSize,
	})
}

func (s *shopService) GetPost(ctx context.Context, id int64) (*shop.Post, error) {
	post, err := s.stores.Posts.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("post", id, err)
	}
	return post, nil
}

func (s *shopService) CreatePost(ctx context.Context, title, content string) (*shop.Post, error) {
	title = strings.TrimSpace(title)
	if title == "" || strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: title and content required", service.ErrInvalidInput)
	}
	post := &shop.Post{
		AuthorID: s.principals.CurrentPrincipal(ctx).ID,
		Title:    title,
		Content:  content,
	}
	if err := s.stores.Posts.Save(ctx, post); err != nil {
		return nil, fmt.Errorf("save post: %w", err)
	}
	return post, nil
}

func (s *shopService) UpdatePost(ctx context.Context, id int64, title, content string) (*shop.Post, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != s.principals.CurrentPrincipal(ctx).ID {
		return nil, ErrForbidden
	}
	if t := strings.TrimSpace(title); t != "" {
		post.Title = t
	}
	if strings.TrimSpace(content) != "" {
		post.Content = content
	}
	if err := s.stores.Posts.Save(ctx, post); err != nil {
		return nil, fmt.Errorf("save post: %w", err)
	}
	return post, nil
}

func (s *shopService) DeletePost(ctx context.Context, id int64) error {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return err
	}
	p := s.principals.CurrentPrincipal(ctx)
	if !canModerate(p, post.AuthorID) {
		return ErrForbidden
	}
	if err := s.stores.Posts.DeleteByID(ctx, id); err != nil {
		return notFound("post", id, err)
	}

	if err := s.deleteComments(ctx, id); err != nil {
		log.Warn().Err(err).Int64("post_id", id).Msg("failed to delete comments of removed post")
	}

	log.Info().Int64("post_id", id).Int64("operator", p.ID).Msg("post deleted")
	return nil
}

func (s *shopService) ListComments(ctx context.Context, postID int64, page, pageSize int) ([]*shop.Comment, int64, error) {
	if _, err := s.GetPost(ctx, postID); err != nil {
		return nil, 0, err
	}
	return s.stores.Comments.Search(ctx, repository.Query{
		Equals:   map[string]any{"post_id": postID},
		Page:     page,
		PageSize: pageSize,
	})
}

func (s *shopService) AddComment(ctx context.Context, postID int64, content string) (*shop.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content required", service.ErrInvalidInput)
	}
	if _, err := s.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	comment := &shop.Comment{
		PostID:   postID,
		AuthorID: s.principals.CurrentPrincipal(ctx).ID,
		Content:  content,
	}
	if err := s.stores.Comments.Save(ctx, comment); err != nil {
		return nil, fmt.Errorf("save comment: %w", err)
	}
	return comment, nil
}

func (s *shopService) DeleteComment(ctx context.Context, id int64) error {
	comment, err := s.stores.Comments.FindByID(ctx, id)
	if err != nil {
		return notFound("comment", id, err)
	}
	p := s.principals.CurrentPrincipal(ctx)
	if !canModerate(p, comment.AuthorID) {
		return ErrForbidden
	}
	return notFound("comment", id, s.stores.Comments.DeleteByID(ctx, id))
}

// deleteComments 删除帖子下的全部评论
func (s *shopService) deleteComments(ctx context.Context, postID int64) error {
	for {
		comments, _, err := s.stores.Comments.Search(ctx, repository.Query{
			Equals:   map[string]any{"post_id": postID},
			PageSize: 100,
		})
		if err != nil {
			return err
		}
		if len(comments) == 0 {
			return nil
		}
		for _, c := range comments {
			if err := s.stores.Comments.DeleteByID(ctx, c.ID); err != nil {
				return err
			}
		}
	}
}
