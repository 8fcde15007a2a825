package asset

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtensionFor(t *testing.T) {
	for contentType, want := range map[string]string{
		"image/jpeg":               ".jpg",
		"image/png":                ".png",
		"image/gif":                ".gif",
		"IMAGE/PNG":                ".png",
		"image/jpeg; charset=utf8": ".jpg",
	} {
		got, err := ExtensionFor(contentType)
		require.NoError(t, err, contentType)
		assert.Equal(t, want, got, contentType)
	}

	for _, contentType := range []string{"", "image/webp", "text/plain", "not a type;;"} {
		_, err := ExtensionFor(contentType)
		assert.ErrorIs(t, err, ErrUnsupportedType, contentType)
	}
}

func TestLogicalName(t *testing.T) {
	assert.Equal(t, "sunset", LogicalName("sunset.jpg"))
	assert.Equal(t, "sunset", LogicalName("sunset.final.jpg"))
	assert.Equal(t, "sunset", LogicalName("sunset"))
	assert.Equal(t, "sunset", LogicalName("/tmp/upload/sunset.jpg"))
	assert.Equal(t, "sunset", LogicalName(`C:\Users\me\sunset.jpg`))
	assert.Equal(t, "", LogicalName(".hidden.jpg"))
	assert.Equal(t, "", LogicalName(""))
}

func TestDimensionsRejectsGarbage(t *testing.T) {
	_, _, err := Dimensions([]byte{0x00, 0x01, 0x02})
	assert.ErrorIs(t, err, ErrDecode)
}

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	locks := newKeyedMutex()

	unlock := locks.Lock("name:sunset", "id:1")
	acquired := make(chan struct{})
	go func() {
		release := locks.Lock("id:1")
		close(acquired)
		release()
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first is held")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()
	<-acquired
	assert.Zero(t, locks.size())
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	locks := newKeyedMutex()

	var wg sync.WaitGroup
	for _, key := range []string{"a", "b", "c"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := locks.Lock(key, key)
			release()
		}()
	}
	wg.Wait()
	assert.Zero(t, locks.size())
}
