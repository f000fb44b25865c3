package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeValidation indicates invalid input data
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConflict indicates a conflict with existing data
	ErrorTypeConflict ErrorType = "conflict"
	// ErrorTypeUnauthorized indicates authentication failure
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	// ErrorTypeForbidden indicates insufficient permissions
	ErrorTypeForbidden ErrorType = "forbidden"
	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeMethodNotAllowed indicates an unsupported HTTP method
	ErrorTypeMethodNotAllowed ErrorType = "method_not_allowed"
	// ErrorTypeRateLimited indicates the client exceeded its request budget
	ErrorTypeRateLimited ErrorType = "rate_limited"
	// ErrorTypeExternal indicates a storage or external service error
	ErrorTypeExternal ErrorType = "external"
)

// Code identifies the specific failure so callers can decide whether to
// retry (conflicts) or abort (not-found, invalid input).
type Code string

const (
	CodeDuplicateName         Code = "duplicate_name"
	CodeDuplicateEdge         Code = "duplicate_edge"
	CodeSelfLoop              Code = "self_loop"
	CodeNodeInUse             Code = "node_in_use"
	CodeUnknownEntity         Code = "unknown_entity"
	CodeOwnershipConflict     Code = "ownership_conflict"
	CodeInsufficientInventory Code = "insufficient_inventory"
	CodeInsufficientFunds     Code = "insufficient_funds"
	CodeInvalidQuantity       Code = "invalid_quantity"
	CodeInvalidParameter      Code = "invalid_parameter"
	CodeContractUnmet         Code = "contract_unmet"
	CodeAlreadyMember         Code = "already_member"
	CodeUnauthorized          Code = "unauthorized"
	CodeForbidden             Code = "forbidden"
	CodeMethodNotAllowed      Code = "method_not_allowed"
	CodeRateLimited           Code = "rate_limited"
	CodeStorageUnavailable    Code = "storage_unavailable"
	CodeInternal              Code = "internal"
)

// AppError is the base error type for application errors
type AppError struct {
	Type    ErrorType
	Code    Code
	Message string
	Details map[string]any
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// DuplicateName reports a uniqueness violation on a name column.
func DuplicateName(kind, name string) error {
	return &AppError{
		Type:    ErrorTypeConflict,
		Code:    CodeDuplicateName,
		Message: fmt.Sprintf("%s %q already exists", kind, name),
		Details: map[string]any{"kind": kind, "name": name},
	}
}

// DuplicateEdge reports an existing tunnel for an ordered node pair.
func DuplicateEdge(fromNodeID, toNodeID int) error {
	return &AppError{
		Type:    ErrorTypeConflict,
		Code:    CodeDuplicateEdge,
		Message: fmt.Sprintf("tunnel %d -> %d already exists", fromNodeID, toNodeID),
		Details: map[string]any{"from_node_id": fromNodeID, "to_node_id": toNodeID},
	}
}

// SelfLoop reports a tunnel whose endpoints are the same node.
func SelfLoop(nodeID int) error {
	return &AppError{
		Type:    ErrorTypeValidation,
		Code:    CodeSelfLoop,
		Message: fmt.Sprintf("node %d cannot tunnel to itself", nodeID),
		Details: map[string]any{"node_id": nodeID},
	}
}

// NodeInUse reports a node that is still a tunnel endpoint.
func NodeInUse(nodeID, tunnelCount int) error {
	return &AppError{
		Type:    ErrorTypeConflict,
		Code:    CodeNodeInUse,
		Message: fmt.Sprintf("node %d is referenced by %d tunnel(s)", nodeID, tunnelCount),
		Details: map[string]any{"node_id": nodeID, "tunnel_count": tunnelCount},
	}
}

// UnknownEntity reports a reference to an entity that does not exist.
func UnknownEntity(kind string, id any) error {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Code:    CodeUnknownEntity,
		Message: fmt.Sprintf("%s %v not found", kind, id),
		Details: map[string]any{"kind": kind, "id": id},
	}
}

// OwnershipConflict reports a lost compare-and-swap on an asset's owner.
func OwnershipConflict(kind string, id int, expected, actual *int) error {
	return &AppError{
		Type:    ErrorTypeConflict,
		Code:    CodeOwnershipConflict,
		Message: fmt.Sprintf("%s %d owner changed: expected %s, found %s", kind, id, ownerString(expected), ownerString(actual)),
		Details: map[string]any{"kind": kind, "id": id, "expected_owner_id": expected, "actual_owner_id": actual},
	}
}

// InsufficientInventory reports a trade exceeding available stock.
func InsufficientInventory(starbaseID int, resource string, have, want int) error {
	return &AppError{
		Type:    ErrorTypeConflict,
		Code:    CodeInsufficientInventory,
		Message: fmt.Sprintf("starbase %d has %d %s, %d requested", starbaseID, have, resource, want),
		Details: map[string]any{"starbase_id": starbaseID, "resource_type": resource, "have": have, "want": want},
	}
}

// InsufficientCargo reports a sale exceeding the seller's carried stock.
func InsufficientCargo(userID int, resource string, have, want int) error {
	return &AppError{
		Type:    ErrorTypeConflict,
		Code:    CodeInsufficientInventory,
		Message: fmt.Sprintf("user %d carries %d %s, %d requested", userID, have, resource, want),
		Details: map[string]any{"user_id": userID, "resource_type": resource, "have": have, "want": want},
	}
}

// InsufficientFunds reports a purchase exceeding the buyer's balance.
func InsufficientFunds(userID int, have, want int64) error {
	return &AppError{
		Type:    ErrorTypeConflict,
		Code:    CodeInsufficientFunds,
		Message: fmt.Sprintf("user %d has %d credits, %d required", userID, have, want),
		Details: map[string]any{"user_id": userID, "have": have, "want": want},
	}
}

// InvalidQuantity reports a non-positive trade or cargo quantity.
func InvalidQuantity(quantity int) error {
	return &AppError{
		Type:    ErrorTypeValidation,
		Code:    CodeInvalidQuantity,
		Message: fmt.Sprintf("quantity must be positive, got %d", quantity),
		Details: map[string]any{"quantity": quantity},
	}
}

// InvalidParameterf creates an invalid parameter error with formatting
func InvalidParameterf(format string, args ...any) error {
	return &AppError{
		Type:    ErrorTypeValidation,
		Code:    CodeInvalidParameter,
		Message: fmt.Sprintf(format, args...),
	}
}

// ContractUnmet reports a contract whose terms are not currently satisfiable.
func ContractUnmet(contractID int, reason string) error {
	return &AppError{
		Type:    ErrorTypeConflict,
		Code:    CodeContractUnmet,
		Message: fmt.Sprintf("contract %d unmet: %s", contractID, reason),
		Details: map[string]any{"contract_id": contractID, "reason": reason},
	}
}

// AlreadyMember reports a duplicate faction membership.
func AlreadyMember(factionID, userID int) error {
	return &AppError{
		Type:    ErrorTypeConflict,
		Code:    CodeAlreadyMember,
		Message: fmt.Sprintf("user %d is already a member of faction %d", userID, factionID),
		Details: map[string]any{"faction_id": factionID, "user_id": userID},
	}
}

// Unauthorized creates an unauthorized error
func Unauthorized(message string) error {
	return &AppError{
		Type:    ErrorTypeUnauthorized,
		Code:    CodeUnauthorized,
		Message: message,
	}
}

// Forbidden creates a forbidden error
func Forbidden(message string) error {
	return &AppError{
		Type:    ErrorTypeForbidden,
		Code:    CodeForbidden,
		Message: message,
	}
}

// MethodNotAllowed creates a method not allowed error
func MethodNotAllowed(method string) error {
	return &AppError{
		Type:    ErrorTypeMethodNotAllowed,
		Code:    CodeMethodNotAllowed,
		Message: fmt.Sprintf("method %s not allowed", method),
	}
}

// RateLimited reports a client that exhausted its request budget.
func RateLimited() error {
	return &AppError{
		Type:    ErrorTypeRateLimited,
		Code:    CodeRateLimited,
		Message: "rate limit exceeded",
	}
}

// StorageUnavailable wraps a storage-layer failure. Callers retry with
// backoff; no half-applied change is visible behind one of these.
func StorageUnavailable(message string, err error) error {
	return &AppError{
		Type:    ErrorTypeExternal,
		Code:    CodeStorageUnavailable,
		Message: message,
		Err:     err,
	}
}

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) error {
	return &AppError{
		Type:    ErrorTypeInternal,
		Code:    CodeInternal,
		Message: message,
		Err:     err,
	}
}

// GetType returns the error type of an error
func GetType(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// GetCode returns the machine code of an error
func GetCode(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	return GetCode(err) == code
}

func ownerString(id *int) string {
	if id == nil {
		return "unclaimed"
	}
	return fmt.Sprintf("user %d", *id)
}
