// Package outbound runs requests to third-party APIs through fiber's HTTP
// client agent.
package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

var ErrNoTimeLeft = errors.New("context deadline leaves no time for the request")

// Do parses and sends a prepared agent. The request is bounded by timeout
// and, when ctx carries an earlier deadline, by that deadline instead.
func Do(ctx context.Context, a *fiber.Agent, timeout time.Duration) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		left := time.Until(deadline)
		if left <= 0 {
			return 0, nil, ErrNoTimeLeft
		}
		if timeout <= 0 || left < timeout {
			timeout = left
		}
	}
	if timeout > 0 {
		a.Timeout(timeout)
	}

	if err := a.Parse(); err != nil {
		return 0, nil, err
	}
	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return code, body, errors.Join(errs...)
	}
	return code, body, nil
}
