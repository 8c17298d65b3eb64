package request

import (
	"sharebook/internal/usecase/commands"

	"github.com/google/uuid"
)

// Field values are validated by the book aggregate so that every rule reports a stable error code.
type CreateBookRequest struct {
	ID            *uuid.UUID `json:"id"`
	Title         string     `json:"title"`
	Author        string     `json:"author"`
	Pages         int        `json:"pages"`
	SharedByOwner bool       `json:"shared_by_owner"`
	Labels        []string   `json:"labels" binding:"max=50,dive,max=64"`
}

type UpdateBookRequest struct {
	Title         *string   `json:"title"`
	Author        *string   `json:"author"`
	Pages         *int      `json:"pages"`
	SharedByOwner *bool     `json:"shared_by_owner"`
	Labels        *[]string `json:"labels" binding:"omitempty,max=50,dive,max=64"`
}

func (r *CreateBookRequest) ToCommand() commands.CreateBookRequest {
	return commands.CreateBookRequest{
		ID:            r.ID,
		Title:         r.Title,
		Author:        r.Author,
		Pages:         r.Pages,
		SharedByOwner: r.SharedByOwner,
		Labels:        r.Labels,
	}
}

func (r *UpdateBookRequest) ToCommand() commands.UpdateBookRequest {
	return commands.UpdateBookRequest{
		Title:         r.Title,
		Author:        r.Author,
		Pages:         r.Pages,
		SharedByOwner: r.SharedByOwner,
		Labels:        r.Labels,
	}
}
