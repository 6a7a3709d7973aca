// Package tokenlist reads a verified token list document from object storage.
package tokenlist

import (
	"context"
	"fmt"
	"io"

	"token-aggregator/core/sources"
	"token-aggregator/core/storage"
	"token-aggregator/core/token"

	"github.com/minio/minio-go/v7"
	"github.com/tidwall/gjson"
)

// maxDocumentSize caps the token list read into memory.
const maxDocumentSize = 16 << 20

// Source serves logo and verification metadata from a {"tokens":[...]} document.
type Source struct {
	client storage.Client
	bucket string
	object string
}

// New creates a token-list source reading bucket/object.
func New(client storage.Client, bucket, object string) *Source {
	return &Source{client: client, bucket: bucket, object: object}
}

func (s *Source) Name() token.Source { return token.SourceTokenList }

func (s *Source) Kind() sources.Kind { return sources.KindMetadata }

// Fetch downloads and parses the document. Entries without an explicit
// "verified" field are treated as verified, the list itself being curated.
func (s *Source) Fetch(ctx context.Context) ([]token.Token, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("tokenlist: get %s/%s: %w", s.bucket, s.object, err)
	}
	defer obj.Close()

	body, err := io.ReadAll(io.LimitReader(obj, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("tokenlist: read %s/%s: %w", s.bucket, s.object, err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("tokenlist: %s/%s is not valid JSON", s.bucket, s.object)
	}

	list := gjson.GetBytes(body, "tokens")
	if !list.IsArray() {
		return nil, fmt.Errorf("tokenlist: %s/%s has no tokens array", s.bucket, s.object)
	}

	entries := list.Array()
	out := make([]token.Token, 0, len(entries))
	for _, raw := range entries {
		address := raw.Get("address").String()
		if address == "" {
			continue
		}
		verified := true
		if v := raw.Get("verified"); v.Exists() {
			verified = v.Bool()
		}
		out = append(out, token.Token{
			Address:  address,
			LogoURI:  raw.Get("logoURI").String(),
			Verified: verified,
			Source:   token.SourceTokenList,
		})
	}
	return out, nil
}
