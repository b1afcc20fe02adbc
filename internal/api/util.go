package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/constants"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/service"
)

var errorStatuses = []struct {
	err    error
	status int
	msg    string
}{
	{service.ErrUnknownLocation, http.StatusNotFound, constants.ErrUnknownLocation},
	{service.ErrAlreadyQueued, http.StatusConflict, constants.ErrAlreadyQueued},
	{service.ErrRunInProgress, http.StatusConflict, constants.ErrRunInProgress},
	{service.ErrPoolFull, http.StatusConflict, constants.ErrPoolFull},
	{service.ErrUnknownStrategy, http.StatusBadRequest, constants.ErrUnknownStrategy},
	{service.ErrInsufficientFunds, http.StatusPaymentRequired, constants.ErrInsufficientFunds},
	{service.ErrUnknownEquipment, http.StatusBadRequest, constants.ErrUnknownEquipment},
	{service.ErrEquipmentNotOwned, http.StatusForbidden, constants.ErrEquipmentNotOwned},
	{service.ErrEquipmentBelowThreshold, http.StatusForbidden, constants.ErrEquipmentBelowThreshold},
	{service.ErrNotQueued, http.StatusNotFound, constants.ErrNotQueued},
	{service.ErrRunAlreadyStarted, http.StatusConflict, constants.ErrRunAlreadyStarted},
}

// errorResponse maps a service error to an HTTP status and client message.
// Unrecognized errors become a 500 with fallback.
func errorResponse(err error, fallback string) (int, string) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status, e.msg
		}
	}
	return http.StatusInternalServerError, fallback
}

// normalizeTimestamps recursively renames GORM timestamp keys from CamelCase
// to snake_case so clients consistently receive snake_case timestamps.
func normalizeTimestamps(v interface{}) interface{} {
	switch vv := v.(type) {
	case map[string]interface{}:
		for k, val := range vv {
			vv[k] = normalizeTimestamps(val)
		}
		for from, to := range map[string]string{"CreatedAt": "created_at", "UpdatedAt": "updated_at", "DeletedAt": "deleted_at", "ID": "id"} {
			if val, ok := vv[from]; ok {
				vv[to] = val
				delete(vv, from)
			}
		}
		return vv
	case []interface{}:
		for i := range vv {
			vv[i] = normalizeTimestamps(vv[i])
		}
		return vv
	default:
		return v
	}
}

// MarshalIntoSnakeTimestamps round-trips v through JSON and normalizes the
// embedded gorm.Model keys.
func MarshalIntoSnakeTimestamps(v interface{}) (interface{}, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return normalizeTimestamps(out), nil
}
