package textutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "istanbul", Key("İSTANBUL "))
	assert.Equal(t, "ısparta", Key("ISPARTA"))
	assert.Equal(t, "kadıköy", Key("  Kadıköy"))
	assert.Equal(t, "yeni mahalle", Key("Yeni   Mahalle"))
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Çelenk Gönderirken Nelere Dikkat Edilmeli?": "celenk-gonderirken-nelere-dikkat-edilmeli",
		"  Açılış Çelengi  ":                         "acilis-celengi",
		"Düğün & Nişan 2024":                         "dugun-nisan-2024",
		"ŞIK ÇİÇEKLER":                               "sik-cicekler",
		"Café crème":                                 "cafe-creme",
		"!!!":                                        "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestKeyAndSlugifyConcurrentUse(t *testing.T) {
	const workers, calls = 16, 500
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		bad []string
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < calls; i++ {
				key := Key("İSTANBUL  Kadıköy")
				slug := Slugify("Açılış Çelengi")
				if key != "istanbul kadıköy" || slug != "acilis-celengi" {
					mu.Lock()
					bad = append(bad, key+" / "+slug)
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()
	assert.Empty(t, bad)
}
