package http_test

import (
	"encoding/json"
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pathParam = regexp.MustCompile(`:(\w+)`)

// El documento servido en /docs debe describir cada ruta de /api que registra el router.
func TestSwaggerDoc_CubreTodasLasRutas(t *testing.T) {
	raw, err := os.ReadFile("../../../docs/swagger.json")
	require.NoError(t, err)
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))

	api := newTestAPI(t)
	seen := 0
	for _, r := range api.app.GetRoutes(true) {
		if !strings.HasPrefix(r.Path, "/api/") {
			continue
		}
		switch r.Method {
		case "GET", "POST", "PUT", "DELETE":
		default:
			continue
		}
		path := pathParam.ReplaceAllString(strings.TrimSuffix(r.Path, "/"), "{$1}")
		ops, ok := doc.Paths[path]
		if !assert.True(t, ok, "ruta sin documentar: %s %s", r.Method, path) {
			continue
		}
		_, ok = ops[strings.ToLower(r.Method)]
		assert.True(t, ok, "método sin documentar: %s %s", r.Method, path)
		seen++
	}
	assert.Equal(t, 24, seen)
}
