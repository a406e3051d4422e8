package post

import (
	"context"

	"anoa.com/socialgram/internal/entity"
	postDto "anoa.com/socialgram/internal/modules/post/dto"
	userRepo "anoa.com/socialgram/internal/modules/user/repository"
	commonDto "anoa.com/socialgram/pkg/dto"
	"github.com/google/uuid"
)

// ExpandPosts maps posts onto their display responses, resolving every
// liking user across the batch with a single summary lookup. The feed
// assembler reuses it for timeline composition.
func ExpandPosts(ctx context.Context, users userRepo.UserRepository, posts []entity.Post) ([]postDto.PostResponse, error) {
	likerIDs := make([]uuid.UUID, 0)
	seen := make(map[uuid.UUID]bool)
	for _, p := range posts {
		for _, raw := range p.Likes {
			id, err := uuid.Parse(raw)
			if err != nil || seen[id] {
				continue
			}
			seen[id] = true
			likerIDs = append(likerIDs, id)
		}
	}

	likers := make(map[uuid.UUID]commonDto.UserSummary, len(likerIDs))
	if len(likerIDs) > 0 {
		summaries, err := users.FindSummariesByIDs(ctx, likerIDs)
		if err != nil {
			return nil, err
		}
		for _, u := range summaries {
			likers[u.ID] = commonDto.UserSummary{
				ID:        u.ID,
				Name:      u.Name,
				Username:  u.Username,
				AvatarURL: u.AvatarURL,
			}
		}
	}

	responses := make([]postDto.PostResponse, 0, len(posts))
	for _, p := range posts {
		resp := postDto.PostResponse{
			ID:         p.ID,
			ImageURL:   p.ImageURL,
			Caption:    p.Caption,
			Likes:      make([]commonDto.UserSummary, 0, len(p.Likes)),
			Comments:   make([]postDto.CommentResponse, 0, len(p.Comments)),
			SharedFrom: p.SharedFrom,
			ShareText:  p.ShareText,
			CreatedAt:  p.CreatedAt,
		}

		if p.Author != nil {
			resp.Author = commonDto.UserSummary{
				ID:        p.Author.ID,
				Name:      p.Author.Name,
				Username:  p.Author.Username,
				AvatarURL: p.Author.AvatarURL,
			}
		}

		for _, raw := range p.Likes {
			if id, err := uuid.Parse(raw); err == nil {
				if summary, ok := likers[id]; ok {
					resp.Likes = append(resp.Likes, summary)
				}
			}
		}

		for _, c := range p.Comments {
			comment := postDto.CommentResponse{
				ID:        c.ID,
				Text:      c.Text,
				CreatedAt: c.CreatedAt,
			}
			if c.Author != nil {
				comment.Author = commonDto.UserSummary{
					ID:        c.Author.ID,
					Name:      c.Author.Name,
					Username:  c.Author.Username,
					AvatarURL: c.Author.AvatarURL,
				}
			}
			resp.Comments = append(resp.Comments, comment)
		}

		responses = append(responses, resp)
	}

	return responses, nil
}
