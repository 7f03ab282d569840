package api

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"pigment_catalog/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/clause"
)

type toggleResponse struct {
	Saved bool `json:"saved"`
}

func TestToggleBookmarkIsAnInvolution(t *testing.T) {
	r, db, _ := newTestApp(t)
	user := registerUser(t, r, "alice", "alice@example.com", "secret-pass")
	pigment := seedPigment(t, db, "Azurite", 0)
	path := fmt.Sprintf("/save/%d", pigment.ID)

	// First toggle saves
	w := doPostForm(r, path, nil, user)
	require.Equal(t, http.StatusOK, w.Code)
	var resp toggleResponse
	decodeBody(t, w, &resp)
	assert.True(t, resp.Saved)

	var count int64
	require.NoError(t, db.Model(&domain.SavedPigment{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// Second toggle restores the prior state
	w = doPostForm(r, path, nil, user)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &resp)
	assert.False(t, resp.Saved)

	require.NoError(t, db.Model(&domain.SavedPigment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestToggleBookmarkUnknownPigment(t *testing.T) {
	r, _, _ := newTestApp(t)
	user := registerUser(t, r, "alice", "alice@example.com", "secret-pass")

	w := doPostForm(r, "/save/9999", nil, user)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestToggleBookmarkRequiresSession(t *testing.T) {
	r, db, _ := newTestApp(t)
	pigment := seedPigment(t, db, "Azurite", 0)

	w := doPostForm(r, fmt.Sprintf("/save/%d", pigment.ID), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDuplicatePairInsertIsAbsorbed(t *testing.T) {
	// The composite primary key plus DO NOTHING is the backstop against a
	// racing duplicate insert: the second one is a no-op, never a second row.
	r, db, _ := newTestApp(t)
	registerUser(t, r, "alice", "alice@example.com", "secret-pass")
	pigment := seedPigment(t, db, "Azurite", 0)

	var alice domain.User
	require.NoError(t, db.Where("username = ?", "alice").First(&alice).Error)

	pair := domain.SavedPigment{UserID: alice.ID, PigmentID: pigment.ID}
	require.NoError(t, db.Clauses(clause.OnConflict{DoNothing: true}).Create(&pair).Error)
	dup := domain.SavedPigment{UserID: alice.ID, PigmentID: pigment.ID}
	require.NoError(t, db.Clauses(clause.OnConflict{DoNothing: true}).Create(&dup).Error)

	var count int64
	require.NoError(t, db.Model(&domain.SavedPigment{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSavedFlagsAppearInCatalogViews(t *testing.T) {
	r, db, _ := newTestApp(t)
	user := registerUser(t, r, "alice", "alice@example.com", "secret-pass")
	azurite := seedPigment(t, db, "Azurite", 0)
	vermillion := seedPigment(t, db, "Vermillion", 1)

	w := doPostForm(r, fmt.Sprintf("/save/%d", azurite.ID), nil, user)
	require.Equal(t, http.StatusOK, w.Code)

	// The listing flags the saved pigment for this session
	w = doGet(r, "/view", user)
	require.Equal(t, http.StatusOK, w.Code)
	var list listResponse
	decodeBody(t, w, &list)
	assert.Equal(t, []uint{azurite.ID}, list.SavedIDs)

	// The single view carries the flag too
	w = doGet(r, fmt.Sprintf("/view/%d", azurite.ID), user)
	var one pigmentResponse
	decodeBody(t, w, &one)
	assert.True(t, one.Saved)

	w = doGet(r, fmt.Sprintf("/view/%d", vermillion.ID), user)
	decodeBody(t, w, &one)
	assert.False(t, one.Saved)
}

func TestBookmarkEndToEndFlow(t *testing.T) {
	r, db, _ := newTestApp(t)
	pigment := seedPigment(t, db, "Azurite", 0)

	// register alice -> login -> toggle -> profile has exactly the pigment
	registerUser(t, r, "alice", "a@x.com", "secret-pass")
	w := doPostForm(r, "/login", url.Values{"login": {"alice"}, "password": {"secret-pass"}})
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w)

	w = doPostForm(r, fmt.Sprintf("/save/%d", pigment.ID), nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var profile struct {
		Pigments []domain.Pigment `json:"pigments"`
	}
	w = doGet(r, "/profile", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &profile)
	require.Len(t, profile.Pigments, 1)
	assert.Equal(t, pigment.ID, profile.Pigments[0].ID)

	// toggle again -> profile is empty
	w = doPostForm(r, fmt.Sprintf("/save/%d", pigment.ID), nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = doGet(r, "/profile", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &profile)
	assert.Empty(t, profile.Pigments)
}

func TestProfileListsSavedPigmentsInCatalogOrder(t *testing.T) {
	r, db, _ := newTestApp(t)
	user := registerUser(t, r, "alice", "alice@example.com", "secret-pass")
	second := seedPigment(t, db, "Vermillion", 5)
	first := seedPigment(t, db, "Azurite", 1)
	seedPigment(t, db, "Malachite", 3) // Never saved

	for _, p := range []domain.Pigment{second, first} {
		w := doPostForm(r, fmt.Sprintf("/save/%d", p.ID), nil, user)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doGet(r, "/profile", user)
	require.Equal(t, http.StatusOK, w.Code)
	var profile struct {
		Pigments []domain.Pigment `json:"pigments"`
	}
	decodeBody(t, w, &profile)
	require.Len(t, profile.Pigments, 2)
	assert.Equal(t, first.ID, profile.Pigments[0].ID)
	assert.Equal(t, second.ID, profile.Pigments[1].ID)
}
