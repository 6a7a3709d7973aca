// Package curated reads operator-maintained token metadata from MySQL.
//
// Rows only decorate records created by market sources; a curated address that no
// market source reports never appears in a snapshot.
package curated

import (
	"context"
	"fmt"

	"token-aggregator/core/sources"
	"token-aggregator/core/token"

	"gorm.io/gorm"
)

// CuratedToken is one row of the curated_tokens table.
type CuratedToken struct {
	Address  string `gorm:"column:address;primaryKey;size:64"`
	LogoURI  string `gorm:"column:logo_uri;size:512"`
	Verified bool   `gorm:"column:verified"`
}

// TableName pins the table name.
func (CuratedToken) TableName() string {
	return "curated_tokens"
}

// Source serves curated metadata.
type Source struct {
	db *gorm.DB
}

// New creates a curated source on an open connection.
func New(db *gorm.DB) *Source {
	return &Source{db: db}
}

func (s *Source) Name() token.Source { return token.SourceCurated }

func (s *Source) Kind() sources.Kind { return sources.KindMetadata }

// Fetch loads every curated row.
func (s *Source) Fetch(ctx context.Context) ([]token.Token, error) {
	var rows []CuratedToken
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("curated: query failed: %w", err)
	}

	out := make([]token.Token, 0, len(rows))
	for _, r := range rows {
		if r.Address == "" {
			continue
		}
		out = append(out, token.Token{
			Address:  r.Address,
			LogoURI:  r.LogoURI,
			Verified: r.Verified,
			Source:   token.SourceCurated,
		})
	}
	return out, nil
}
