// Copyright (c) 2025, Tilefort Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package layer

import (
	"errors"
	"fmt"
)

// ErrRegistryClosed indicates an operation on a registry after Close.
var ErrRegistryClosed = errors.New("layer registry is closed")

// UnknownLayerError reports a lookup for a name absent from the current
// mapping. It is recoverable: callers typically translate it into a
// not-found response.
type UnknownLayerError struct {
	Name string
}

// Error implements the error interface.
func (e *UnknownLayerError) Error() string {
	return fmt.Sprintf("unknown layer %q: check the logs, its configuration may not have loaded properly", e.Name)
}

// IsUnknownLayer reports whether err is (or wraps) an UnknownLayerError.
func IsUnknownLayer(err error) bool {
	var target *UnknownLayerError
	return errors.As(err, &target)
}

// ConfigurationError wraps a failure of the configuration load barrier.
// Every caller blocked on the barrier observes the same underlying failure.
// The registry becomes usable again only once a subsequent reload succeeds.
type ConfigurationError struct {
	Err error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("layer configuration not loaded: %v", e.Err)
}

// Unwrap returns the underlying load failure for errors.Is and errors.As.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err is (or wraps) a ConfigurationError.
func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}
