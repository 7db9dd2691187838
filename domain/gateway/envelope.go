package gateway

import (
	"fmt"
	"strings"

	"taskflow/domain"
)

// Unwrapping helpers used by the adapters. Each turns a transport error or a
// Success=false envelope into a wrapped domain.ErrGateway.

// Records unwraps a fetch
func Records(action string, resp *FetchResponse, err error) ([]Record, error) {
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", action, domain.ErrGateway, err)
	}
	if resp == nil || !resp.Success {
		return nil, domain.GatewayFailure(action, message(resp))
	}
	return resp.Data, nil
}

// One unwraps a single-record read. A nil record with a nil error means no such id.
func One(action string, resp *GetResponse, err error) (Record, error) {
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", action, domain.ErrGateway, err)
	}
	if resp == nil || !resp.Success {
		var msg string
		if resp != nil {
			msg = resp.Message
		}
		return nil, domain.GatewayFailure(action, msg)
	}
	return resp.Data, nil
}

// FirstWritten unwraps a create or update and returns the first successful record.
// When the batch mixes successes and failures, the failures come back as a
// *domain.PartialWriteError next to the record so the caller can report them.
func FirstWritten(action string, resp *WriteResponse, err error) (Record, *domain.PartialWriteError, error) {
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w: %v", action, domain.ErrGateway, err)
	}
	if resp == nil {
		return nil, nil, domain.GatewayFailure(action, "")
	}
	if !resp.Success && len(resp.Results) == 0 {
		return nil, nil, domain.GatewayFailure(action, resp.Message)
	}

	var first Record
	var failed []domain.WriteFailure
	for i, r := range resp.Results {
		if r.Success {
			if first == nil {
				first = r.Data
			}
			continue
		}
		failed = append(failed, domain.WriteFailure{Index: i, Message: resultMessage(r)})
	}

	if first == nil {
		msg := resp.Message
		if len(failed) > 0 {
			msg = failed[0].Message
		}
		return nil, nil, domain.GatewayFailure(action, msg)
	}
	if len(failed) > 0 {
		return first, &domain.PartialWriteError{Action: action, Failed: failed}, nil
	}
	return first, nil, nil
}

// Deleted unwraps a delete; every listed id must have been removed
func Deleted(action string, resp *DeleteResponse, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w: %v", action, domain.ErrGateway, err)
	}
	if resp == nil {
		return domain.GatewayFailure(action, "")
	}
	for _, r := range resp.Results {
		if !r.Success {
			return domain.GatewayFailure(action, r.Message)
		}
	}
	if !resp.Success {
		return domain.GatewayFailure(action, resp.Message)
	}
	return nil
}

func message(resp *FetchResponse) string {
	if resp == nil {
		return ""
	}
	return resp.Message
}

func resultMessage(r WriteResult) string {
	parts := make([]string, 0, len(r.Errors)+1)
	if r.Message != "" {
		parts = append(parts, r.Message)
	}
	for _, fe := range r.Errors {
		parts = append(parts, fe.FieldLabel+": "+fe.Message)
	}
	if len(parts) == 0 {
		return "write rejected"
	}
	return strings.Join(parts, "; ")
}
