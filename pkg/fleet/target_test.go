package fleet

import (
	"testing"

	"github.com/praetorian-inc/ssmhosts/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTarget(t *testing.T) {
	records := []types.InstanceRecord{
		{InstanceID: "i-001", DisplayName: "web", PlatformName: "Ubuntu"},
		{InstanceID: "i-002", DisplayName: "web-canary", PlatformName: "Ubuntu"},
		{InstanceID: "i-003", DisplayName: "db", PlatformName: "CentOS"},
	}

	tests := []struct {
		name    string
		target  string
		want    string
		wantErr bool
	}{
		{name: "instance id", target: "i-002", want: "i-002"},
		{name: "exact name beats substring", target: "web", want: "i-001"},
		{name: "unique substring", target: "centos", want: "i-003"},
		{name: "ambiguous substring", target: "ubuntu", wantErr: true},
		{name: "no match", target: "windows", wantErr: true},
		{name: "empty", target: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveTarget(records, tt.target)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.InstanceID)
		})
	}
}

func TestResolveTarget_DuplicateNames(t *testing.T) {
	records := []types.InstanceRecord{
		{InstanceID: "i-001", DisplayName: "worker"},
		{InstanceID: "i-002", DisplayName: "worker"},
	}
	_, err := ResolveTarget(records, "worker")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "i-001")
}
