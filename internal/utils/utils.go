package utils

import (
	"encoding/json"
	"net/http"

	"gorm.io/datatypes"
)

// WriteJSONResponse writes the standard {success,message,data,error} envelope.
func WriteJSONResponse(w http.ResponseWriter, status int, success bool, message string, data interface{}, errDetail interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": success,
		"message": message,
		"data":    data,
		"error":   errDetail,
	})
}

func DatatypesJSONFromStrings(ss []string) datatypes.JSON {
	b, _ := json.Marshal(ss)
	return datatypes.JSON(b)
}

func DatatypesJSONFromAny(v interface{}) datatypes.JSON {
	if v == nil {
		return datatypes.JSON([]byte("[]"))
	}
	b, _ := json.Marshal(v)
	return datatypes.JSON(b)
}

func DatatypesJSONFromMap(m map[string]interface{}) datatypes.JSON {
	if m == nil {
		m = map[string]interface{}{}
	}
	b, _ := json.Marshal(m)
	return datatypes.JSON(b)
}
