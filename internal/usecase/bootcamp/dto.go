package bootcamp

import (
	"io"
	"time"

	domainBootcamp "bootcamp-directory/internal/domain/bootcamp"
)

type CreateBootcampRequest struct {
	Name          string   `json:"name" validate:"required,max=50"`
	Description   string   `json:"description" validate:"required,max=500"`
	Website       string   `json:"website" validate:"omitempty,url"`
	Phone         string   `json:"phone" validate:"omitempty,max=20,phone"`
	Email         string   `json:"email" validate:"omitempty,email"`
	Address       string   `json:"address" validate:"required"`
	Careers       []string `json:"careers" validate:"required,min=1,dive,career"`
	Housing       bool     `json:"housing"`
	JobAssistance bool     `json:"jobAssistance"`
	JobGuarantee  bool     `json:"jobGuarantee"`
	AcceptGi      bool     `json:"acceptGi"`
}

// UpdateBootcampRequest is a partial update; nil fields are left alone.
type UpdateBootcampRequest struct {
	Name          *string  `json:"name" validate:"omitempty,max=50"`
	Description   *string  `json:"description" validate:"omitempty,max=500"`
	Website       *string  `json:"website" validate:"omitempty,url"`
	Phone         *string  `json:"phone" validate:"omitempty,max=20,phone"`
	Email         *string  `json:"email" validate:"omitempty,email"`
	Address       *string  `json:"address" validate:"omitempty,min=1"`
	Careers       []string `json:"careers" validate:"omitempty,min=1,dive,career"`
	Housing       *bool    `json:"housing"`
	JobAssistance *bool    `json:"jobAssistance"`
	JobGuarantee  *bool    `json:"jobGuarantee"`
	AcceptGi      *bool    `json:"acceptGi"`
}

// PhotoUpload is a file received from a multipart form.
type PhotoUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type LocationResponse struct {
	Type             string    `json:"type"`
	Coordinates      []float64 `json:"coordinates"`
	FormattedAddress string    `json:"formattedAddress,omitempty"`
	Street           string    `json:"street,omitempty"`
	City             string    `json:"city,omitempty"`
	State            string    `json:"state,omitempty"`
	Zipcode          string    `json:"zipcode,omitempty"`
	Country          string    `json:"country,omitempty"`
}

type BootcampResponse struct {
	ID            string            `json:"id"`
	Name          string            `json:"name,omitempty"`
	Slug          string            `json:"slug,omitempty"`
	Description   string            `json:"description,omitempty"`
	Website       string            `json:"website,omitempty"`
	Phone         string            `json:"phone,omitempty"`
	Email         string            `json:"email,omitempty"`
	Address       string            `json:"address,omitempty"`
	Location      *LocationResponse `json:"location,omitempty"`
	Careers       []string          `json:"careers,omitempty"`
	AverageRating *float64          `json:"averageRating,omitempty"`
	AverageCost   *float64          `json:"averageCost,omitempty"`
	Photo         string            `json:"photo,omitempty"`
	Housing       bool              `json:"housing"`
	JobAssistance bool              `json:"jobAssistance"`
	JobGuarantee  bool              `json:"jobGuarantee"`
	AcceptGi      bool              `json:"acceptGi"`
	User          string            `json:"user,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// BootcampSummary is embedded in course and review responses.
type BootcampSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func ToBootcampResponse(b *domainBootcamp.Bootcamp) *BootcampResponse {
	if b == nil {
		return nil
	}
	resp := &BootcampResponse{
		ID:            b.ID,
		Name:          b.Name,
		Slug:          b.Slug,
		Description:   b.Description,
		Website:       b.Website,
		Phone:         b.Phone,
		Email:         b.Email,
		Address:       b.Address,
		Careers:       b.Careers,
		AverageRating: b.AverageRating,
		AverageCost:   b.AverageCost,
		Photo:         b.Photo,
		Housing:       b.Housing,
		JobAssistance: b.JobAssistance,
		JobGuarantee:  b.JobGuarantee,
		AcceptGi:      b.AcceptGi,
		User:          b.UserID,
		CreatedAt:     b.CreatedAt,
	}
	if loc := b.Location; loc != nil {
		resp.Location = &LocationResponse{
			Type:             loc.Type,
			Coordinates:      loc.Coordinates,
			FormattedAddress: loc.FormattedAddress,
			Street:           loc.Street,
			City:             loc.City,
			State:            loc.State,
			Zipcode:          loc.Zipcode,
			Country:          loc.Country,
		}
	}
	return resp
}

func ToBootcampResponses(bootcamps []*domainBootcamp.Bootcamp) []*BootcampResponse {
	out := make([]*BootcampResponse, 0, len(bootcamps))
	for _, b := range bootcamps {
		out = append(out, ToBootcampResponse(b))
	}
	return out
}

func ToBootcampSummary(b *domainBootcamp.Bootcamp) *BootcampSummary {
	if b == nil {
		return nil
	}
	return &BootcampSummary{ID: b.ID, Name: b.Name, Description: b.Description}
}
