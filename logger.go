/*
Copyright 2023 Alexander Bartolomey (github@alexanderbartolomey.de)

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package ki

import (
	"context"
	"sync/atomic"

	"github.com/go-logr/logr"
)

// rootLog backs getLog and is swapped wholesale by SetLogger. Until an
// integrator calls SetLogger, it holds a discarding sink so the decoder
// never panics or blocks on an unconfigured logger.
var rootLog atomic.Pointer[logr.Logger]

func init() {
	l := logr.Discard()
	rootLog.Store(&l)
}

// SetLogger installs the logger backing getLog and FromContext. Call it once
// during program startup; it is safe to call concurrently with decoding,
// but later calls simply replace the sink for subsequent log statements.
func SetLogger(l logr.Logger) {
	rootLog.Store(&l)
}

// getLog returns the package root logger, defaulting to a discarding sink until
// SetLogger is called. Unlike the delegating sink this package's teacher
// used, there is no sub-logger tree to retroactively fulfill: the decoder
// has a handful of WithValues call sites and no WithName hierarchy, so a
// plain atomic swap is enough.
func getLog() logr.Logger {
	return *rootLog.Load()
}

// FromContext returns the logger attached to ctx by IntoContext, falling
// back to the package root logger.
func FromContext(ctx context.Context, keysAndValues ...interface{}) logr.Logger {
	log := getLog()
	if ctx != nil {
		if logger, err := logr.FromContext(ctx); err == nil {
			log = logger
		}
	}
	return log.WithValues(keysAndValues...)
}

// IntoContext attaches l to ctx for later retrieval with FromContext.
func IntoContext(ctx context.Context, l logr.Logger) context.Context {
	return logr.NewContext(ctx, l)
}
