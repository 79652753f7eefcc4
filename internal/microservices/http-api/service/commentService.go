package service

import (
	"context"
	"fmt"
	"strings"

	"codeconnect/internal/microservices/http-api/dto"
	"codeconnect/internal/microservices/http-api/models"
	"codeconnect/internal/microservices/http-api/repository"
	"codeconnect/internal/shared"
)

type CommentService interface {
	ListByProject(ctx context.Context, projectID string) ([]dto.CommentResponse, error)
	Create(ctx context.Context, caller *shared.Identity, projectID string, req dto.CreateCommentDTO) (*dto.CommentResponse, error)
	Delete(ctx context.Context, caller *shared.Identity, commentID string) error
	ToggleLike(ctx context.Context, caller *shared.Identity, commentID string) (*dto.ToggleResponse, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	authorizer  *Authorizer
	recorder    EngagementRecorder
}

func NewCommentService(commentRepo repository.CommentRepository, authorizer *Authorizer, recorder EngagementRecorder) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		authorizer:  authorizer,
		recorder:    recorderOrNoop(recorder),
	}
}

// ListByProject returns the project's comments, newest first. An unknown
// project simply has none.
func (s *commentService) ListByProject(ctx context.Context, projectID string) ([]dto.CommentResponse, error) {
	comments, err := s.commentRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, dto.FromModelToCommentResponse(&comments[i]))
	}
	return out, nil
}

func (s *commentService) Create(ctx context.Context, caller *shared.Identity, projectID string, req dto.CreateCommentDTO) (*dto.CommentResponse, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, validationError("Comment text is required")
	}
	if runeLen(text) > MaxCommentLength {
		return nil, validationError(fmt.Sprintf("Comment cannot exceed %d characters", MaxCommentLength))
	}

	comment := &models.Comment{
		ProjectID: projectID,
		Author:    snapshotOf(caller),
		Text:      text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, orNotFound(err, errProjectNotFound)
	}
	s.recorder.RecordEngagement(KindComment, ActionAdd)

	resp := dto.FromModelToCommentResponse(comment)
	return &resp, nil
}

func (s *commentService) Delete(ctx context.Context, caller *shared.Identity, commentID string) error {
	if err := requireCaller(caller); err != nil {
		return err
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return orNotFound(err, errCommentNotFound)
	}
	if !s.authorizer.CanDeleteComment(caller, comment.Author.ID) {
		return forbidden("Not authorized to delete this comment")
	}

	// a parent that is already gone is fine; the flag only says whether it was touched
	if _, err := s.commentRepo.Delete(ctx, comment); err != nil {
		return orNotFound(err, errCommentNotFound)
	}
	s.recorder.RecordEngagement(KindComment, ActionRemove)
	return nil
}

func (s *commentService) ToggleLike(ctx context.Context, caller *shared.Identity, commentID string) (*dto.ToggleResponse, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	result, err := s.commentRepo.ToggleLike(ctx, commentID, caller.ID)
	if err != nil {
		return nil, orNotFound(err, errCommentNotFound)
	}
	s.recorder.RecordEngagement(KindCommentLike, toggleAction(result.Liked))

	return &dto.ToggleResponse{Liked: result.Liked, LikesCount: result.LikesCount}, nil
}
