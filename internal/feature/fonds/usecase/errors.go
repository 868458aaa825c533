// Package usecase はfondsフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"errors"
	"fmt"

	"fonds_backend/internal/feature/fonds/domain/entity"
)

var (
	// ErrFundamentalsNotFound is returned when no fundamentals row exists for an asset uid.
	ErrFundamentalsNotFound = errors.New("fundamentals not found")

	// ErrUnknownSector is returned when a request names a sector outside the known set.
	ErrUnknownSector = errors.New("unknown sector")
)

// UnknownRatioError is returned when a ranking request names a ratio kind
// outside the supported set. It carries the offending kind so the transport
// layer can include it in the error payload.
type UnknownRatioError struct {
	Kind entity.RatioKind
}

func (e *UnknownRatioError) Error() string {
	return fmt.Sprintf("unknown ratio kind %q", string(e.Kind))
}
