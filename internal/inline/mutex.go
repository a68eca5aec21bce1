//go:build !debug

package inline

import "sync"

type rwMutex = sync.RWMutex
