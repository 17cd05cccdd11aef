package main

/*
#include <stdlib.h>
*/
import "C"
import (
	"encoding/json"
	"unsafe"

	"github.com/nickyhof/SessionVars"
	"github.com/nickyhof/SessionVars/db"
)

// Handle represents an open session instance
type Handle struct {
	instance *SessionVars.Instance
	engine   *db.Engine
}

// Global handle storage (simplified - in production use a map with mutex)
var handles = make(map[int]*Handle)
var nextHandle = 1

// Response mirrors the server protocol for consistency
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Type    string          `json:"type,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

type QueryResponse struct {
	Columns     []string   `json:"columns"`
	Data        [][]string `json:"data"`
	RecordsRead int        `json:"records_read"`
	TimeMs      float64    `json:"time_ms"`
}

type CommitResponse struct {
	PackagesDropped  int     `json:"packages_dropped,omitempty"`
	VariablesSet     int     `json:"variables_set,omitempty"`
	VariablesRemoved int     `json:"variables_removed,omitempty"`
	RecordsWritten   int     `json:"records_written,omitempty"`
	RecordsDeleted   int     `json:"records_deleted,omitempty"`
	TimeMs           float64 `json:"time_ms"`
}

//export sessionvars_open
func sessionvars_open() C.int {
	instance := SessionVars.Open()

	handle := nextHandle
	nextHandle++
	handles[handle] = &Handle{
		instance: instance,
		engine:   instance.Engine(),
	}

	return C.int(handle)
}

//export sessionvars_close
func sessionvars_close(handle C.int) {
	delete(handles, int(handle))
}

//export sessionvars_execute
func sessionvars_execute(handle C.int, query *C.char) *C.char {
	h, ok := handles[int(handle)]
	if !ok {
		return makeErrorResponse("Invalid handle")
	}

	goQuery := C.GoString(query)
	result, err := h.engine.Execute(goQuery)

	if err != nil {
		return makeErrorResponse(err.Error())
	}

	var resp Response

	switch r := result.(type) {
	case db.QueryResult:
		qr := QueryResponse{
			Columns:     r.Columns,
			Data:        r.Data,
			RecordsRead: r.RecordsRead,
			TimeMs:      r.ExecutionTimeSec * 1000,
		}
		data, _ := json.Marshal(qr)
		resp = Response{
			Success: true,
			Type:    "query",
			Result:  data,
		}

	case db.CommitResult:
		cr := CommitResponse{
			PackagesDropped:  r.PackagesDropped,
			VariablesSet:     r.VariablesSet,
			VariablesRemoved: r.VariablesRemoved,
			RecordsWritten:   r.RecordsWritten,
			RecordsDeleted:   r.RecordsDeleted,
			TimeMs:           r.ExecutionTimeSec * 1000,
		}
		data, _ := json.Marshal(cr)
		resp = Response{
			Success: true,
			Type:    "commit",
			Result:  data,
		}

	default:
		resp = Response{
			Success: true,
			Type:    "unknown",
		}
	}

	jsonData, _ := json.Marshal(resp)
	return C.CString(string(jsonData))
}

//export sessionvars_free
func sessionvars_free(ptr *C.char) {
	C.free(unsafe.Pointer(ptr))
}

func makeErrorResponse(msg string) *C.char {
	resp := Response{
		Success: false,
		Error:   msg,
	}
	jsonData, _ := json.Marshal(resp)
	return C.CString(string(jsonData))
}

func main() {}
