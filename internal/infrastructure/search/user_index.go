package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/tokenflow-auth/internal/application"
	"github.com/oksasatya/tokenflow-auth/internal/domain/entity"
)

// UserIndex mirrors confirmed identities into an Elasticsearch index.
// Credentials are never indexed.
type UserIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func NewUserIndex(es *elasticsearch.Client, index string) *UserIndex {
	return &UserIndex{ES: es, Index: index}
}

// usersMapping keeps identifiers exact-match and the name searchable.
const usersMapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "keyword"},
      "email":       {"type": "keyword"},
      "username":    {"type": "keyword"},
      "fullname":    {"type": "text"},
      "profile_img": {"type": "keyword", "index": false},
      "joined_at":   {"type": "date"}
    }
  }
}`

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (x *UserIndex) EnsureIndex(ctx context.Context) error {
	if x.ES == nil || x.Index == "" {
		return nil
	}
	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	exists, err := esapi.IndicesExistsRequest{Index: []string{x.Index}}.Do(c, x.ES)
	if err != nil {
		return err
	}
	_ = exists.Body.Close()
	if exists.StatusCode == 200 {
		return nil
	}

	res, err := esapi.IndicesCreateRequest{Index: x.Index, Body: strings.NewReader(usersMapping)}.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es create index %s: %s", x.Index, res.Status())
	}
	return nil
}

func (x *UserIndex) IndexUser(ctx context.Context, u *entity.User) error {
	if x.ES == nil || x.Index == "" {
		return nil
	}
	doc := map[string]any{
		"id":          u.ID,
		"email":       u.Email,
		"username":    u.Username,
		"fullname":    u.FullName,
		"profile_img": u.ProfileImageURL,
		"joined_at":   u.JoinedAt.Format(time.RFC3339Nano),
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.Index, DocumentID: u.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

var _ application.UserIndexer = (*UserIndex)(nil)
