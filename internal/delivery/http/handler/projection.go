package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"bootcamp-directory/pkg/query"
	"bootcamp-directory/pkg/utils"

	"github.com/gin-gonic/gin"
)

// project trims a response down to the fields named by select. The store
// already projected, so this only drops zero values the DTOs still carry.
// "id" is always kept. Dotted entries such as location.city keep the parent
// key and trim inside it.
func project(v interface{}, fields []string) (interface{}, error) {
	if len(fields) == 0 || v == nil {
		return v, nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	keep := selection{"id": nil}
	for _, f := range fields {
		keep.add(strings.Split(f, "."))
	}

	var list []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		for _, item := range list {
			prune(item, keep)
		}
		return list, nil
	}

	var item map[string]json.RawMessage
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, err
	}
	prune(item, keep)
	return item, nil
}

// selection maps a key to the sub-keys kept under it. A nil value keeps the
// whole field.
type selection map[string]selection

func (s selection) add(path []string) {
	head := path[0]
	if len(path) == 1 {
		s[head] = nil
		return
	}

	sub, ok := s[head]
	if ok && sub == nil {
		return
	}
	if !ok {
		sub = selection{}
		s[head] = sub
	}
	sub.add(path[1:])
}

func prune(item map[string]json.RawMessage, keep selection) {
	for k, v := range item {
		sub, ok := keep[k]
		if !ok {
			delete(item, k)
			continue
		}
		if sub == nil {
			continue
		}

		var nested map[string]json.RawMessage
		if err := json.Unmarshal(v, &nested); err != nil {
			continue
		}
		prune(nested, sub)
		if trimmed, err := json.Marshal(nested); err == nil {
			item[k] = trimmed
		}
	}
}

// respondList writes a page of results with its neighbour links.
func respondList(c *gin.Context, q *query.Descriptor, total int64, count int, data interface{}) {
	projected, err := project(data, q.Projection)
	if err != nil {
		respondWithError(c, err)
		return
	}
	utils.ListResponse(c, http.StatusOK, count, q.Paginate(total), projected)
}
