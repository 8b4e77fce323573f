package handlers

import (
	"encoding/json"
	"net/http"
)

// decodeJSON decodes a request body into dst. With strict set, fields
// outside dst are rejected, which is how the PATCH endpoints enforce their
// allowed-updates whitelist.
func decodeJSON(r *http.Request, dst interface{}, strict bool) error {
	dec := json.NewDecoder(r.Body)
	if strict {
		dec.DisallowUnknownFields()
	}
	return dec.Decode(dst)
}
