package repository

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/atinyakov/go-review-links/internal/gateway"
	"github.com/atinyakov/go-review-links/internal/storage"
)

func linkFromRow(row gateway.Row) storage.ReviewLink {
	return storage.ReviewLink{
		ID:                 row.String("id"),
		Slug:               row.String("slug"),
		BusinessName:       row.String("businessName", "business_name"),
		GmbReviewLink:      row.String("gmbReviewLink", "gmb_review_link"),
		LogoURL:            row.String("logoUrl", "logo_url"),
		BackgroundImageURL: row.String("backgroundImageUrl", "background_image_url"),
		CreatedAt:          parseTime(row.String("createdAt", "created_at")),
	}
}

func (r *Store) ListLinks(ctx context.Context) ([]storage.ReviewLink, error) {
	res, err := r.exec.Execute(ctx, "SELECT * FROM links ORDER BY createdAt DESC")
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, rejected("list links", res)
	}

	links := make([]storage.ReviewLink, 0, len(res.Rows))
	for _, row := range res.Rows {
		links = append(links, linkFromRow(row))
	}

	return links, nil
}

func (r *Store) FindLinkBySlug(ctx context.Context, slug string) (*storage.ReviewLink, error) {
	res, err := r.exec.Execute(ctx, "SELECT * FROM links WHERE slug = ? LIMIT 1", slug)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, rejected("find link", res)
	}

	if len(res.Rows) == 0 {
		return nil, storage.ErrNotFound
	}

	link := linkFromRow(res.Rows[0])
	return &link, nil
}

func (r *Store) CreateLink(ctx context.Context, link storage.ReviewLink) (*storage.ReviewLink, error) {
	res, err := r.exec.Execute(ctx,
		"INSERT INTO links (id, slug, businessName, gmbReviewLink, logoUrl, backgroundImageUrl, createdAt) VALUES (?, ?, ?, ?, ?, ?, ?)",
		link.ID, link.Slug, link.BusinessName, link.GmbReviewLink, link.LogoURL, link.BackgroundImageURL, formatTime(link.CreatedAt),
	)
	if err != nil {
		return nil, err
	}

	if !res.Success {
		return nil, rejected("insert link", res)
	}

	return &link, nil
}

// UpdateLink only ever touches the columns named in LinkPatch.
func (r *Store) UpdateLink(ctx context.Context, id string, patch storage.LinkPatch) (bool, error) {
	if patch.Empty() {
		return false, nil
	}

	var (
		sets   []string
		params []any
	)
	add := func(col string, v *string) {
		if v != nil {
			sets = append(sets, col+" = ?")
			params = append(params, *v)
		}
	}
	add("businessName", patch.BusinessName)
	add("gmbReviewLink", patch.GmbReviewLink)
	add("logoUrl", patch.LogoURL)
	add("backgroundImageUrl", patch.BackgroundImageURL)
	params = append(params, id)

	res, err := r.exec.Execute(ctx, "UPDATE links SET "+strings.Join(sets, ", ")+" WHERE id = ?", params...)
	if err != nil {
		return false, err
	}

	if !res.Success {
		return false, rejected("update link", res)
	}

	return res.RowsAffected > 0, nil
}

func (r *Store) DeleteLink(ctx context.Context, id string) (bool, error) {
	res, err := r.exec.Execute(ctx, "DELETE FROM links WHERE id = ?", id)
	if err != nil {
		return false, err
	}

	r.logger.Info("Delete operation",
		zap.Bool("success", res.Success),
		zap.Int64("changes", res.RowsAffected),
		zap.String("id", id),
	)

	if !res.Success {
		return false, rejected("delete link", res)
	}

	return res.RowsAffected > 0, nil
}
