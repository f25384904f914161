package packager

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	pkgerrors "github.com/mini-maxit/runner/pkg/errors"
	"github.com/mini-maxit/runner/pkg/languages"
	"github.com/mini-maxit/runner/utils"
)

// Materialize produces the exact program text that runs for one test case: the user's code
// followed by a call of entryPoint with the test input, whose result is printed.
//
// A JSON array input spreads into positional arguments, any other value is passed as the only
// argument and an empty input calls the entry point with no arguments. The result is a pure
// function of its inputs.
func Materialize(
	lang languages.LanguageType,
	entryPoint string,
	code string,
	input json.RawMessage,
) (string, error) {
	if err := utils.ValidateIdentifier(entryPoint); err != nil {
		return "", fmt.Errorf("%w: %s", pkgerrors.ErrInvalidEntryPoint, err)
	}

	switch lang {
	case languages.PYTHON:
		args, err := pythonArguments(input)
		if err != nil {
			return "", err
		}
		var sb strings.Builder
		sb.Grow(len(code) + len(entryPoint) + len(args) + 16)
		sb.WriteString(code)
		sb.WriteString("\n\nprint(")
		sb.WriteString(entryPoint)
		sb.WriteByte('(')
		sb.WriteString(args)
		sb.WriteString("))\n")
		return sb.String(), nil
	default:
		return "", pkgerrors.ErrUnsupportedLanguage
	}
}

// pythonArguments renders input as a comma separated Python argument list.
func pythonArguments(input json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(input)
	if len(trimmed) == 0 {
		return "", nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("%w: input: %s", pkgerrors.ErrInvalidTestCases, err)
	}

	var sb strings.Builder
	if delim, ok := tok.(json.Delim); ok && delim == '[' {
		// Top-level array: every element is one positional argument.
		if err := writePythonSequence(&sb, dec, ']'); err != nil {
			return "", fmt.Errorf("%w: input: %s", pkgerrors.ErrInvalidTestCases, err)
		}
	} else if err := writePythonValue(&sb, dec, tok); err != nil {
		return "", fmt.Errorf("%w: input: %s", pkgerrors.ErrInvalidTestCases, err)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("%w: input has trailing data", pkgerrors.ErrInvalidTestCases)
	}
	return sb.String(), nil
}

// writePythonSequence writes the remaining elements up to the closing delimiter, comma separated,
// without the surrounding brackets.
func writePythonSequence(sb *strings.Builder, dec *json.Decoder, closing json.Delim) error {
	first := true
	for dec.More() {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if err := writePythonValue(sb, dec, tok); err != nil {
			return err
		}
	}
	end, err := dec.Token()
	if err != nil {
		return err
	}
	if end != closing {
		return fmt.Errorf("unexpected token %v", end)
	}
	return nil
}

func writePythonValue(sb *strings.Builder, dec *json.Decoder, tok json.Token) error {
	switch v := tok.(type) {
	case nil:
		sb.WriteString("None")
	case bool:
		if v {
			sb.WriteString("True")
		} else {
			sb.WriteString("False")
		}
	case json.Number:
		sb.WriteString(v.String())
	case string:
		return writePythonString(sb, v)
	case json.Delim:
		switch v {
		case '[':
			sb.WriteByte('[')
			if err := writePythonSequence(sb, dec, ']'); err != nil {
				return err
			}
			sb.WriteByte(']')
		case '{':
			return writePythonDict(sb, dec)
		default:
			return fmt.Errorf("unexpected delimiter %v", v)
		}
	default:
		return fmt.Errorf("unexpected token %v", tok)
	}
	return nil
}

// writePythonDict keeps keys in document order.
func writePythonDict(sb *strings.Builder, dec *json.Decoder) error {
	sb.WriteByte('{')
	first := true
	for dec.More() {
		if !first {
			sb.WriteString(", ")
		}
		first = false

		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", keyTok)
		}
		if err := writePythonString(sb, key); err != nil {
			return err
		}
		sb.WriteString(": ")

		valTok, err := dec.Token()
		if err != nil {
			return err
		}
		if err := writePythonValue(sb, dec, valTok); err != nil {
			return err
		}
	}
	end, err := dec.Token()
	if err != nil {
		return err
	}
	if end != json.Delim('}') {
		return fmt.Errorf("unexpected token %v", end)
	}
	sb.WriteByte('}')
	return nil
}

// JSON string escapes are a subset of Python's, so a JSON-quoted string is a valid Python literal.
func writePythonString(sb *strings.Builder, s string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	sb.Write(bytes.TrimRight(buf.Bytes(), "\n"))
	return nil
}
