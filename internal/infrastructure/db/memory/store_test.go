package memory

import (
	"testing"

	"github.com/therapyai/caseload/internal/core/ports"
	"github.com/therapyai/caseload/internal/infrastructure/db/storetest"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) ports.Store { return New() })
}
