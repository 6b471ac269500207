package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeClaims_Admin(t *testing.T) {
	claims, err := DecodeClaims([]byte(`{"admin": true, "username": "alice"}`))
	require.NoError(t, err)
	assert.True(t, claims.Admin)
	assert.Equal(t, "alice", claims.Username)
}

func TestDecodeClaims_NonAdmin(t *testing.T) {
	claims, err := DecodeClaims([]byte(`{"admin": false}`))
	require.NoError(t, err)
	assert.False(t, claims.Admin)
}

func TestDecodeClaims_MissingAdminField(t *testing.T) {
	_, err := DecodeClaims([]byte(`{"username": "bob"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrClaimsDecode)
}

func TestDecodeClaims_InvalidJSON(t *testing.T) {
	_, err := DecodeClaims([]byte(`not json`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrClaimsDecode)
}

func TestConversionJob_Marshal(t *testing.T) {
	job := NewConversionJob("fid-123", Claims{Admin: true, Username: "alice"})

	payload, err := job.Marshal()
	require.NoError(t, err)
	assert.JSONEq(t, `{"video_fid":"fid-123","mp3_fid":"","username":"alice","admin":true}`, string(payload))
}
