//go:build debug

package literal

import "github.com/sasha-s/go-deadlock"

type rwMutex = deadlock.RWMutex
