package crawl_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/fwojciec/sitescrape/crawl"
	"github.com/stretchr/testify/assert"
)

func TestDeduplicator_Dedupe(t *testing.T) {
	t.Parallel()

	t.Run("keeps unseen fragments", func(t *testing.T) {
		t.Parallel()

		d := crawl.NewDeduplicator()
		text := "The first sentence is long enough to keep. The second sentence is also long enough"

		assert.Equal(t, text, d.Dedupe(text))
		assert.Equal(t, 2, d.Len())
	})

	t.Run("keeps every distinct fragment", func(t *testing.T) {
		t.Parallel()

		d := crawl.NewDeduplicator()
		fragments := make([]string, 5000)
		for i := range fragments {
			fragments[i] = fmt.Sprintf("Distinct fragment number %d of the long page", i)
		}
		text := strings.Join(fragments, ". ")

		assert.Equal(t, text, d.Dedupe(text))
		assert.Equal(t, len(fragments), d.Len())
	})

	t.Run("drops fragments seen on an earlier page", func(t *testing.T) {
		t.Parallel()

		d := crawl.NewDeduplicator()
		d.Dedupe("Shared navigation text appears on every page. Unique intro for the home page here")

		got := d.Dedupe("Shared navigation text appears on every page. Unique body of the pricing page here")

		assert.Equal(t, "Unique body of the pricing page here", got)
	})

	t.Run("drops repeats within the same text", func(t *testing.T) {
		t.Parallel()

		d := crawl.NewDeduplicator()

		got := d.Dedupe("This exact sentence repeats in the text. This exact sentence repeats in the text")

		assert.Equal(t, "This exact sentence repeats in the text", got)
	})

	t.Run("ignores case and punctuation when comparing", func(t *testing.T) {
		t.Parallel()

		d := crawl.NewDeduplicator()
		d.Dedupe("Read our getting-started guide, today!")

		assert.Empty(t, d.Dedupe("read our getting started guide today"))
	})

	t.Run("drops fragments shorter than thirty characters", func(t *testing.T) {
		t.Parallel()

		d := crawl.NewDeduplicator()

		got := d.Dedupe("Too short. Also short. This fragment is comfortably over the limit")

		assert.Equal(t, "This fragment is comfortably over the limit", got)
		assert.Equal(t, 1, d.Len())
	})

	t.Run("trims fragments before measuring", func(t *testing.T) {
		t.Parallel()

		d := crawl.NewDeduplicator()

		assert.Empty(t, d.Dedupe("   twenty nine chars exactly!   "))
	})

	t.Run("empty text yields empty text", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, crawl.NewDeduplicator().Dedupe(""))
	})
}

func TestSignature(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lowercases", in: "Hello World", want: "helloworld"},
		{name: "strips punctuation", in: "it's a-ok, right?", want: "itsaokright"},
		{name: "keeps digits and underscores", in: "v2_final 10%", want: "v2_final10"},
		{name: "keeps non-ascii letters", in: "Café Straße", want: "caféstraße"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, crawl.Signature(tt.in))
		})
	}
}
