package receipt

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("StorePriceSearch", func() {
	var search *StorePriceSearch

	BeforeEach(func() {
		search = &StorePriceSearch{Delay: 0}
	})

	When("searching for an item", func() {
		It("returns the fixed mock dataset", func() {
			prices, err := search.Search(context.Background(), "milk")
			Expect(err).NotTo(HaveOccurred())
			Expect(prices).To(HaveLen(4))
			Expect(prices[0].Store).To(Equal("SuperMart"))
		})

		It("returns the same results for any item", func() {
			a, err := search.Search(context.Background(), "milk")
			Expect(err).NotTo(HaveOccurred())
			b, err := search.Search(context.Background(), "bread")
			Expect(err).NotTo(HaveOccurred())
			Expect(a).To(Equal(b))
		})
	})

	When("the query is empty", func() {
		It("returns no results", func() {
			prices, err := search.Search(context.Background(), "   ")
			Expect(err).NotTo(HaveOccurred())
			Expect(prices).To(BeEmpty())
		})
	})

	When("the context is cancelled during the delay", func() {
		BeforeEach(func() {
			search.Delay = time.Minute
		})

		It("returns the context error", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := search.Search(ctx, "milk")
			Expect(err).To(MatchError(context.Canceled))
		})
	})
})
