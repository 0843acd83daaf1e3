package interpreter

import (
	"context"
	"unicode/utf8"

	"github.com/loxlang/golox/internal/loxerrors"
)

// StdFnClock returns seconds since the epoch with sub-second precision.
func StdFnClock(ctx context.Context, interpreter *interpreter) (Value, error) {
	now := interpreter.clock()
	return ValueNumber(float64(now.UnixNano()) / 1e9), nil
}

// StdFnStr converts any value to the string print would show.
func StdFnStr(ctx context.Context, interpreter *interpreter, arg Value) (Value, error) {
	return ValueString(arg.String()), nil
}

// StdFnLen counts the characters of a string.
func StdFnLen(ctx context.Context, interpreter *interpreter, arg Value) (Value, error) {
	s, ok := arg.(ValueString)
	if !ok {
		return nil, loxerrors.ErrRuntimeArgumentMustBeString
	}
	return ValueNumber(utf8.RuneCountInString(string(s))), nil
}

func defineStdlib(globals *Environment) {
	for _, fn := range []*NativeFunction{
		NewNativeFunction0("clock", StdFnClock),
		NewNativeFunction1("str", StdFnStr),
		NewNativeFunction1("len", StdFnLen),
	} {
		globals.Define(fn.Name(), fn)
	}
}
