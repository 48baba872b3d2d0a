package diagnostic

import (
	"fmt"

	goerrors "github.com/go-errors/errors"
)

// Error is every error kind the interpreter and parser can raise: a
// Kind, a source Position and a message. It satisfies the standard
// error interface; Render produces a caret diagnostic pointing at
// Position.
type Error struct {
	Kind     Kind
	Position Position
	Message  string

	// Internal carries a stack trace for KindInternal errors only (a
	// violated invariant -- a bug -- deserves a trace; a name typo does
	// not).
	Internal *goerrors.Error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Position, e.Kind.label(), e.Message)
}

// New builds a non-internal diagnostic error.
func New(kind Kind, pos Position, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Position: pos, Message: fmt.Sprintf(format, args...)}
}

// Internal builds a KindInternal error, capturing a stack trace via
// go-errors/errors.
func Internal(pos Position, format string, args ...interface{}) *Error {
	msg := fmt.Sprintf(format, args...)
	return &Error{
		Kind:     KindInternal,
		Position: pos,
		Message:  msg,
		Internal: goerrors.Wrap(fmt.Errorf("%s", msg), 1),
	}
}

// Lex, Parse, Name, Type, Arity, Value and IO are constructors for the
// remaining error kinds.
func Lex(pos Position, format string, args ...interface{}) *Error {
	return New(KindLex, pos, format, args...)
}

func Parse(pos Position, format string, args ...interface{}) *Error {
	return New(KindParse, pos, format, args...)
}

func Name(pos Position, format string, args ...interface{}) *Error {
	return New(KindName, pos, format, args...)
}

func Type(pos Position, format string, args ...interface{}) *Error {
	return New(KindType, pos, format, args...)
}

func Arity(pos Position, format string, args ...interface{}) *Error {
	return New(KindArity, pos, format, args...)
}

func Value(pos Position, format string, args ...interface{}) *Error {
	return New(KindValue, pos, format, args...)
}

func IO(pos Position, format string, args ...interface{}) *Error {
	return New(KindIO, pos, format, args...)
}
