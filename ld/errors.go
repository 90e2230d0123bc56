// Copyright 2015-2017 Piprate Limited
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ld

import (
	"errors"
	"fmt"
)

// ErrorCode is a JSON-LD error code as per spec.
type ErrorCode string

// JsonLdError is a JSON-LD error as defined in the spec.
// See the allowed values and error messages below.
type JsonLdError struct {
	Code    ErrorCode
	Details interface{}
	Cause   error
}

const (
	// Context processing errors.
	InvalidContextEntry          ErrorCode = "invalid context entry"
	InvalidContextNullification  ErrorCode = "invalid context nullification"
	InvalidLocalContext          ErrorCode = "invalid local context"
	InvalidBaseIRI               ErrorCode = "invalid base IRI"
	InvalidVocabMapping          ErrorCode = "invalid vocab mapping"
	InvalidDefaultLanguage       ErrorCode = "invalid default language"
	InvalidBaseDirection         ErrorCode = "invalid base direction"
	InvalidImportValue           ErrorCode = "invalid @import value"
	InvalidRemoteContext         ErrorCode = "invalid remote context"
	ProcessingModeConflict       ErrorCode = "processing mode conflict"
	InvalidVersionValue          ErrorCode = "invalid @version value"
	InvalidPropagateValue        ErrorCode = "invalid @propagate value"
	ContextOverflow              ErrorCode = "context overflow"

	// Term definition errors.
	InvalidTermDefinition     ErrorCode = "invalid term definition"
	InvalidIRIMapping         ErrorCode = "invalid IRI mapping"
	InvalidTypeMapping        ErrorCode = "invalid type mapping"
	InvalidReverseProperty    ErrorCode = "invalid reverse property"
	InvalidContainerMapping   ErrorCode = "invalid container mapping"
	InvalidPrefixValue        ErrorCode = "invalid @prefix value"
	InvalidNestValue          ErrorCode = "invalid @nest value"
	InvalidLanguageMapping    ErrorCode = "invalid language mapping"
	InvalidKeywordAlias       ErrorCode = "invalid keyword alias"
	KeywordRedefinition       ErrorCode = "keyword redefinition"
	ProtectedTermRedefinition ErrorCode = "protected term redefinition"
	CyclicIRIMapping          ErrorCode = "cyclic IRI mapping"

	// Expansion errors.
	InvalidIDValue             ErrorCode = "invalid @id value"
	InvalidTypeValue            ErrorCode = "invalid type value"
	InvalidIndexValue           ErrorCode = "invalid @index value"
	InvalidValueObject          ErrorCode = "invalid value object"
	InvalidValueObjectValue     ErrorCode = "invalid value object value"
	InvalidLanguageTaggedValue  ErrorCode = "invalid language-tagged value"
	InvalidLanguageTaggedString ErrorCode = "invalid language-tagged string"
	InvalidLanguageMapValue     ErrorCode = "invalid language map value"
	InvalidSetOrListObject      ErrorCode = "invalid set or list object"
	InvalidReverseValue         ErrorCode = "invalid @reverse value"
	InvalidReversePropertyMap   ErrorCode = "invalid reverse property map"
	InvalidReversePropertyValue ErrorCode = "invalid reverse property value"
	InvalidTypedValue           ErrorCode = "invalid typed value"
	InvalidJSONLiteral          ErrorCode = "invalid JSON literal"
	CollidingKeywords           ErrorCode = "colliding keywords"
	ListOfLists                 ErrorCode = "list of lists"
	ConflictingIndexes          ErrorCode = "conflicting indexes"

	// Compaction errors.
	IRIConfusedWithPrefix   ErrorCode = "IRI confused with prefix"
	CompactionToListOfLists ErrorCode = "compaction to list of lists"

	// Loader errors.
	LoadingDocumentFailed      ErrorCode = "loading document failed"
	LoadingRemoteContextFailed ErrorCode = "loading remote context failed"
	MultipleContextLinkHeaders ErrorCode = "multiple context link headers"
	NoContext                  ErrorCode = "no context"
	DuplicateContext           ErrorCode = "multiple contexts"

	// non spec related errors
	SyntaxError    ErrorCode = "syntax error"
	NotImplemented ErrorCode = "not implemented"
	UnknownFormat  ErrorCode = "unknown format"
	InvalidInput   ErrorCode = "invalid input"
	ParseError     ErrorCode = "parse error"
	IOError        ErrorCode = "io error"
	UnknownError   ErrorCode = "unknown error"
)

func (e *JsonLdError) Error() string {
	switch {
	case e.Details != nil && e.Cause != nil:
		return fmt.Sprintf("%v: %v: %v", e.Code, e.Details, e.Cause)
	case e.Details != nil:
		return fmt.Sprintf("%v: %v", e.Code, e.Details)
	case e.Cause != nil:
		return fmt.Sprintf("%v: %v", e.Code, e.Cause)
	default:
		return fmt.Sprintf("%v", e.Code)
	}
}

// Unwrap lets errors.Is/errors.As reach a wrapped cause, e.g. a network
// error surfaced by a DocumentLoader.
func (e *JsonLdError) Unwrap() error { return e.Cause }

// NewJsonLdError creates a new instance of JsonLdError. When details is
// itself an error it becomes the wrapped Cause instead of being stringified,
// so callers can unwrap down to the underlying failure.
func NewJsonLdError(code ErrorCode, details interface{}) *JsonLdError {
	if err, ok := details.(error); ok {
		return &JsonLdError{Code: code, Cause: err}
	}
	return &JsonLdError{Code: code, Details: details}
}

// CodeOf extracts the ErrorCode from err if it is, or wraps, a *JsonLdError.
func CodeOf(err error) (ErrorCode, bool) {
	var ldErr *JsonLdError
	if errors.As(err, &ldErr) {
		return ldErr.Code, true
	}
	return "", false
}
