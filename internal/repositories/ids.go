package repositories

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofrs/uuid"
)

// Identifier prefixes for string-keyed entities
const (
	prefixJob         = "job_"
	prefixApplicant   = "apl_"
	prefixApplication = "app_"
	prefixMessage     = "msg_"
)

// generateID returns prefix + unix millis + a random suffix, e.g. job_1718000000000_3f9a2c1b
func generateID(prefix string) string {
	millis := time.Now().UnixMilli()

	id, err := uuid.NewV4()
	if err != nil {
		// Entropy source failure: fall back to the nanosecond clock
		return prefix + strconv.FormatInt(millis, 10) + "_" + strconv.FormatInt(time.Now().UnixNano()%1e9, 36)
	}
	return fmt.Sprintf("%s%d_%x", prefix, millis, id.Bytes()[:4])
}
