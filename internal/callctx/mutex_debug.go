//go:build debug

package callctx

import "github.com/sasha-s/go-deadlock"

type rwMutex = deadlock.RWMutex
