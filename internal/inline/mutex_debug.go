//go:build debug

package inline

import "github.com/sasha-s/go-deadlock"

type rwMutex = deadlock.RWMutex
