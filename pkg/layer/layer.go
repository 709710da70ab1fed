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
	"context"

	"github.com/tilefort/tilefort/pkg/grid"
)

// Layer is a named, independently configurable tile source served by the
// system. Implementations live outside this package; the registry only
// relies on the capability surface below.
type Layer interface {
	// Name returns the unique, case-sensitive identifier the registry
	// keys the layer under. It must be stable for the life of the layer.
	Name() string

	// Initialize prepares the layer against the shared grid-set broker.
	// It must be idempotent; the registry calls it once per load.
	Initialize(grids *grid.Broker) error

	// AcquireLock takes the layer's exclusive lock. The registry holds it
	// only for the moment an entry is evicted, so that no tile operation
	// starts against a layer that is simultaneously leaving the registry.
	// The lock protects the layer's own internal state, not the registry
	// mapping, and is not required to be reentrant.
	AcquireLock()

	// ReleaseLock releases the lock taken by AcquireLock.
	ReleaseLock()

	// MergeFrom incorporates another layer's configuration into this one
	// in place, returning an error if the two are incompatible.
	MergeFrom(other Layer) error
}

// Source supplies layer definitions and optional service metadata. Sources
// are consumed in list order on every load; a failure of one source never
// prevents the others from contributing.
type Source interface {
	// Identifier names the source for logging and diagnostics.
	Identifier() (string, error)

	// Layers returns the source's layer definitions. When reload is true
	// the source must bypass any cached backing data. An empty result is
	// valid.
	Layers(ctx context.Context, reload bool) ([]Layer, error)

	// ServiceInformation returns descriptive metadata about the overall
	// service, or nil if this source does not provide any.
	ServiceInformation() (*ServiceInformation, error)
}

// ServiceInformation is descriptive metadata about the service as a whole.
// The registry keeps the first non-nil value encountered across sources in
// source-list order and never overwrites it.
type ServiceInformation struct {
	Title             string           `json:"title" yaml:"title"`
	Description       string           `json:"description,omitempty" yaml:"description,omitempty"`
	Keywords          []string         `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Provider          *ServiceProvider `json:"provider,omitempty" yaml:"provider,omitempty"`
	Fees              string           `json:"fees,omitempty" yaml:"fees,omitempty"`
	AccessConstraints string           `json:"accessConstraints,omitempty" yaml:"accessConstraints,omitempty"`
}

// ServiceProvider identifies the organization operating the service.
type ServiceProvider struct {
	Name    string          `json:"name" yaml:"name"`
	Site    string          `json:"site,omitempty" yaml:"site,omitempty"`
	Contact *ServiceContact `json:"contact,omitempty" yaml:"contact,omitempty"`
}

// ServiceContact holds a point of contact for the service provider.
type ServiceContact struct {
	Individual string `json:"individual,omitempty" yaml:"individual,omitempty"`
	Position   string `json:"position,omitempty" yaml:"position,omitempty"`
	Email      string `json:"email,omitempty" yaml:"email,omitempty"`
	Phone      string `json:"phone,omitempty" yaml:"phone,omitempty"`
}
