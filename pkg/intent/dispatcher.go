package intent

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	contextPkg "CommandCore/pkg/context"
	"CommandCore/pkg/datatype"
	"CommandCore/pkg/history"
)

const defaultUserMessage = "Sorry, something went wrong while running that command."

var (
	ErrNoHandler        = errors.New("no handler registered for operation")
	ErrUnknownParameter = errors.New("argument is not a declared parameter")
	ErrValueOutOfSet    = errors.New("value is not a registered identifier")
	ErrMissingParameter = errors.New("required parameter is missing")
	ErrHandlerPanic     = errors.New("handler panicked")
)

// Call is one invocation of an operation with resolved arguments keyed by declared
// parameter name.
type Call struct {
	Operation *Operation
	Args      map[string]any
	Input     string
}

type Reply struct {
	Text    string
	Results []history.Binding
}

type Handler func(ctx context.Context, call Call) (Reply, error)

// ExecutionError wraps anything that went wrong while validating or running a handler.
// UserMessage is safe to show to the user; Err is for logs.
type ExecutionError struct {
	Operation   string
	UserMessage string
	Err         error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execute %s: %v", e.Operation, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// UserFacing lets a handler choose the message shown when it fails.
func UserFacing(message string, err error) error {
	return &ExecutionError{UserMessage: message, Err: err}
}

type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	log      *logrus.Logger
}

func NewDispatcher(log *logrus.Logger) *Dispatcher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Dispatcher{
		handlers: make(map[string]Handler),
		log:      log,
	}
}

// Handle binds h to the operation key ("app/operation"), replacing any previous handler.
func (d *Dispatcher) Handle(key string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[key] = h
}

func (d *Dispatcher) Keys() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	keys := make([]string, 0, len(d.handlers))
	for k := range d.handlers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Dispatch validates call against the operation's parameters and runs its handler. Every
// failure, including a panic inside the handler, is returned as *ExecutionError.
func (d *Dispatcher) Dispatch(ctx context.Context, call Call) (reply Reply, err error) {
	if call.Operation == nil {
		return Reply{}, &ExecutionError{UserMessage: defaultUserMessage, Err: ErrNoHandler}
	}
	key := call.Operation.Key()

	d.mu.RLock()
	h, ok := d.handlers[key]
	d.mu.RUnlock()
	if !ok {
		return Reply{}, d.fail(ctx, key, ErrNoHandler)
	}

	if err := validate(call); err != nil {
		return Reply{}, d.fail(ctx, key, err)
	}

	defer func() {
		if r := recover(); r != nil {
			err = d.fail(ctx, key, fmt.Errorf("%w: %v", ErrHandlerPanic, r))
			reply = Reply{}
		}
	}()

	reply, err = h(ctx, call)
	if err != nil {
		return Reply{}, d.fail(ctx, key, err)
	}
	return reply, nil
}

func (d *Dispatcher) fail(ctx context.Context, key string, err error) error {
	execErr := &ExecutionError{Operation: key, UserMessage: defaultUserMessage, Err: err}

	var handlerErr *ExecutionError
	if errors.As(err, &handlerErr) {
		if handlerErr.UserMessage != "" {
			execErr.UserMessage = handlerErr.UserMessage
		}
		execErr.Err = handlerErr.Err
	}

	d.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"operation":  key,
		"error":      execErr.Err.Error(),
	}).Error("Operation execution failed")

	return execErr
}

func validate(call Call) error {
	op := call.Operation

	for name, value := range call.Args {
		param, ok := op.Parameter(name)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownParameter, name)
		}

		bounded, isBounded := param.Recognizer.(datatype.Bounded)
		if !isBounded {
			continue
		}
		id, isString := value.(string)
		if !isString || !bounded.Contains(id) {
			return fmt.Errorf("%w: %s=%v", ErrValueOutOfSet, param.Name, value)
		}
	}

	for _, param := range op.params {
		if param.Optional {
			continue
		}
		if _, ok := lookupArg(call.Args, param.Name); !ok {
			return fmt.Errorf("%w: %s", ErrMissingParameter, param.Name)
		}
	}

	return nil
}

func lookupArg(args map[string]any, name string) (any, bool) {
	if v, ok := args[name]; ok {
		return v, true
	}
	for k, v := range args {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}
