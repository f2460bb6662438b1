package payment

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewReference builds a unique gateway reference. The timestamp keeps
// references sortable in the dashboard; the uuid fragment makes them
// collision-safe.
func NewReference() string {
	frag := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("EDU_%d_%s", time.Now().UnixMilli(), frag)
}
