package ui

import (
	"errors"
	"strings"
)

const (
	CallbackPrefix     = "m:"
	MaxCallbackDataLen = 64
)

// Operation is what a match button asks the host to do.
type Operation string

const (
	OpShowCard Operation = "s"
	OpNext     Operation = "n"
	OpReveal   Operation = "r"
	OpRematch  Operation = "p"
)

// Action is a decoded match button press. Token ties it to the match step
// the button was rendered for.
type Action struct {
	Op    Operation
	Token string
}

var (
	errInvalidPrefix       = errors.New("invalid callback prefix")
	errInvalidAction       = errors.New("invalid callback action")
	errInvalidOperation    = errors.New("invalid callback operation")
	errInvalidToken        = errors.New("invalid callback token")
	errCallbackDataTooLong = errors.New("callback data too long")
)

func BuildShowCardCallback(token string) (string, error) {
	return buildCallback(OpShowCard, token)
}

func BuildNextCallback(token string) (string, error) {
	return buildCallback(OpNext, token)
}

func BuildRevealCallback(token string) (string, error) {
	return buildCallback(OpReveal, token)
}

func BuildRematchCallback(token string) (string, error) {
	return buildCallback(OpRematch, token)
}

func ParseCallbackData(data string) (Action, error) {
	if data == "" {
		return Action{}, errInvalidAction
	}
	if len(data) > MaxCallbackDataLen {
		return Action{}, errCallbackDataTooLong
	}
	if !strings.HasPrefix(data, CallbackPrefix) {
		return Action{}, errInvalidPrefix
	}

	parts := strings.Split(data, ":")
	if len(parts) != 3 || parts[0] != "m" {
		return Action{}, errInvalidAction
	}
	op, err := parseOperation(parts[1])
	if err != nil {
		return Action{}, err
	}
	if !isToken(parts[2]) {
		return Action{}, errInvalidToken
	}
	return Action{Op: op, Token: parts[2]}, nil
}

func buildCallback(op Operation, token string) (string, error) {
	if _, err := parseOperation(string(op)); err != nil {
		return "", err
	}
	if !isToken(token) {
		return "", errInvalidToken
	}
	return validateCallbackData(CallbackPrefix + string(op) + ":" + token)
}

func validateCallbackData(data string) (string, error) {
	if data == "" {
		return "", errInvalidAction
	}
	if len(data) > MaxCallbackDataLen {
		return "", errCallbackDataTooLong
	}
	return data, nil
}

func parseOperation(opPart string) (Operation, error) {
	switch Operation(opPart) {
	case OpShowCard, OpNext, OpReveal, OpRematch:
		return Operation(opPart), nil
	default:
		return "", errInvalidOperation
	}
}

// isToken accepts the lowercase hex id prefix, a dot and the step number
// that match tokens are made of.
func isToken(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		c := value[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && c != '.' {
			return false
		}
	}
	return true
}
