// Package guard flips PROFILE_TEST_MODE on import so binaries under test never
// dial Postgres or Redis.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("PROFILE_TEST_MODE") == "" {
			_ = os.Setenv("PROFILE_TEST_MODE", "1")
		}
	})
}
