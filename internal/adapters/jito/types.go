package jito

import "encoding/json"

// Raw JSON-RPC DTOs for the block engine bundle API.

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// inflightStatusesResult is the result of getInflightBundleStatuses.
type inflightStatusesResult struct {
	Value []inflightStatus `json:"value"`
}

// inflightStatus is the status of one in-flight bundle.
// Status is one of Invalid, Pending, Landed, Failed.
type inflightStatus struct {
	BundleID   string `json:"bundle_id"`
	Status     string `json:"status"`
	LandedSlot uint64 `json:"landed_slot"`
}
