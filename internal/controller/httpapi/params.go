package httpapi

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/shelf_server/internal/apperr"
)

const labelRequest = "Request"

// listParam собирает значения параметра: ?tag=a&tag=b и ?tag=a,b равнозначны
func listParam(values url.Values, key string) []string {
	var out []string
	for _, raw := range values[key] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func intParam(values url.Values, key string) (int, error) {
	raw := values.Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.InvalidRequest(labelRequest, key+" must be an integer").With(key, raw)
	}
	return n, nil
}

func boolParam(values url.Values, key string) (bool, error) {
	raw := values.Get(key)
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperr.InvalidRequest(labelRequest, key+" must be a boolean").With(key, raw)
	}
	return b, nil
}

func timeParam(values url.Values, key string) (*time.Time, error) {
	raw := values.Get(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, apperr.InvalidRequest(labelRequest, key+" must be an RFC 3339 timestamp").With(key, raw)
	}
	return &t, nil
}
