package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/admira-dashboard/internal/models"
)

func TestAppendKeepsOrderAndDedups(t *testing.T) {
	st := NewMemoryStore()
	id := st.CreateSession()

	ok, err := st.Append(id, models.Message{ID: "m1", Role: models.RoleAssistant, Content: "hola"})
	require.NoError(t, err)
	assert.True(t, ok)
	ok, _ = st.Append(id, models.Message{ID: "m2", Role: models.RoleUser, Content: "roas"})
	assert.True(t, ok)

	ok, err = st.Append(id, models.Message{ID: "m1", Content: "repetido"})
	require.NoError(t, err)
	assert.False(t, ok)

	msgs, err := st.Messages(id)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "hola", msgs[0].Content)
	assert.Equal(t, "roas", msgs[1].Content)
}

func TestMessagesReturnsCopy(t *testing.T) {
	st := NewMemoryStore()
	id := st.CreateSession()
	st.Append(id, models.Message{ID: "a", Content: "x"})

	msgs, _ := st.Messages(id)
	msgs[0].Content = "mutado"

	again, _ := st.Messages(id)
	assert.Equal(t, "x", again[0].Content)
}

func TestUnknownSession(t *testing.T) {
	st := NewMemoryStore()
	_, err := st.Append("nope", models.Message{ID: "a"})
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = st.Messages("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestConcurrentAppends(t *testing.T) {
	st := NewMemoryStore()
	id := st.CreateSession()
	other := st.CreateSession()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			st.Append(id, models.Message{ID: fmt.Sprintf("m%d", i)})
		}(i)
	}
	wg.Wait()

	msgs, _ := st.Messages(id)
	assert.Len(t, msgs, 50)
	empty, _ := st.Messages(other)
	assert.Empty(t, empty)
	assert.NotEqual(t, id, other)
}
