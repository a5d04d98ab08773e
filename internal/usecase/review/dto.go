package review

import (
	"time"

	domainReview "bootcamp-directory/internal/domain/review"
	bootcampUC "bootcamp-directory/internal/usecase/bootcamp"
)

type CreateReviewRequest struct {
	Title  string `json:"title" validate:"required,max=100"`
	Text   string `json:"text" validate:"required"`
	Rating int    `json:"rating" validate:"required,gte=1,lte=10"`
}

type UpdateReviewRequest struct {
	Title  *string `json:"title" validate:"omitempty,max=100"`
	Text   *string `json:"text"`
	Rating *int    `json:"rating" validate:"omitempty,gte=1,lte=10"`
}

type ReviewResponse struct {
	ID        string      `json:"id"`
	Title     string      `json:"title,omitempty"`
	Text      string      `json:"text,omitempty"`
	Rating    int         `json:"rating,omitempty"`
	Bootcamp  interface{} `json:"bootcamp,omitempty"`
	User      string      `json:"user,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

func ToReviewResponse(r *domainReview.Review, bootcamp *bootcampUC.BootcampSummary) *ReviewResponse {
	if r == nil {
		return nil
	}
	resp := &ReviewResponse{
		ID:        r.ID,
		Title:     r.Title,
		Text:      r.Text,
		Rating:    r.Rating,
		User:      r.UserID,
		CreatedAt: r.CreatedAt,
	}
	if bootcamp != nil {
		resp.Bootcamp = bootcamp
	} else if r.BootcampID != "" {
		resp.Bootcamp = r.BootcampID
	}
	return resp
}

func ToReviewResponses(reviews []*domainReview.Review) []*ReviewResponse {
	out := make([]*ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, ToReviewResponse(r, nil))
	}
	return out
}
