package main

import (
	"encoding/json"
	"net/http/httptest"
)

func jsonDecode(rr *httptest.ResponseRecorder, v interface{}) error {
	return json.Unmarshal(rr.Body.Bytes(), v)
}
