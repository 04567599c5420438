package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/employcd/employcd/internal/client/models"
	"github.com/employcd/employcd/internal/common"
	"github.com/employcd/employcd/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenStore_SaveDerivesExpiryFromJWT(t *testing.T) {
	st := newMemStorage()
	ts := NewTokenStore(st, logging.Discard(), fixedClock)
	exp := testNow.Add(time.Hour).Truncate(time.Second)
	tok := mintJWT(t, exp)

	saved, err := ts.Save(context.Background(), tok, "rt")
	require.NoError(t, err)
	assert.Equal(t, exp.UnixMilli(), saved.ExpiresAt)

	var stored models.SessionToken
	require.NoError(t, json.Unmarshal([]byte(st.data[common.AuthTokenKey]), &stored))
	assert.Equal(t, models.SessionToken{Token: tok, ExpiresAt: exp.UnixMilli(), RefreshToken: "rt"}, stored)
}

func TestTokenStore_SaveRejectsNonJWT(t *testing.T) {
	st := newMemStorage()
	ts := NewTokenStore(st, logging.Discard(), fixedClock)

	_, err := ts.Save(context.Background(), "not-a-jwt", "")
	require.ErrorIs(t, err, common.ErrInvalidToken)
	assert.False(t, st.has(common.AuthTokenKey))
}

func TestTokenStore_SaveRejectsMissingExp(t *testing.T) {
	// header {"alg":"none"} payload {"sub":"u1"}
	tok := "eyJhbGciOiJub25lIn0.eyJzdWIiOiJ1MSJ9."
	ts := NewTokenStore(newMemStorage(), logging.Discard(), fixedClock)

	_, err := ts.Save(context.Background(), tok, "")
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestTokenStore_SaveStorageUnavailable(t *testing.T) {
	st := newMemStorage()
	st.failSet = true
	ts := NewTokenStore(st, logging.Discard(), fixedClock)

	saved, err := ts.Save(context.Background(), mintJWT(t, testNow.Add(time.Hour)), "")
	require.ErrorIs(t, err, common.ErrStorageUnavailable)
	assert.NotNil(t, saved)
}

func TestTokenStore_Load(t *testing.T) {
	put := func(st *memStorage, tok models.SessionToken) {
		b, _ := json.Marshal(tok)
		st.data[common.AuthTokenKey] = string(b)
	}

	t.Run("absent", func(t *testing.T) {
		ts := NewTokenStore(newMemStorage(), logging.Discard(), fixedClock)
		_, err := ts.Load(context.Background())
		require.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("valid", func(t *testing.T) {
		st := newMemStorage()
		put(st, models.SessionToken{Token: "t", ExpiresAt: testNow.Add(time.Minute).UnixMilli()})
		ts := NewTokenStore(st, logging.Discard(), fixedClock)

		got, err := ts.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "t", got.Token)
	})

	t.Run("expired is deleted", func(t *testing.T) {
		st := newMemStorage()
		put(st, models.SessionToken{Token: "t", ExpiresAt: testNow.UnixMilli()})
		ts := NewTokenStore(st, logging.Discard(), fixedClock)

		_, err := ts.Load(context.Background())
		require.ErrorIs(t, err, common.ErrTokenExpired)
		assert.False(t, st.has(common.AuthTokenKey))
	})

	t.Run("malformed is deleted", func(t *testing.T) {
		st := newMemStorage()
		st.data[common.AuthTokenKey] = "{not json"
		ts := NewTokenStore(st, logging.Discard(), fixedClock)

		_, err := ts.Load(context.Background())
		require.ErrorIs(t, err, common.ErrInvalidToken)
		assert.False(t, st.has(common.AuthTokenKey))
	})
}
