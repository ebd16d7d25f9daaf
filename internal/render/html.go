package render

import (
	"context"
)

// HTML returns the standalone document as-is. It exists so every format goes
// through the same call shape.
func HTML(ctx context.Context, page string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []byte(page), nil
}
