// Copyright Bytrix Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package memory_test

import (
	"testing"

	"github.com/bytrix/bytrix-gw/pkg/metadata"
	"github.com/bytrix/bytrix-gw/pkg/metadata/memory"
	"github.com/bytrix/bytrix-gw/pkg/metadata/metadatatest"
)

func TestMemoryConformance(t *testing.T) {
	metadatatest.RunConformanceTests(t, func(t *testing.T) metadata.Store {
		return memory.New()
	})
}
