package receipt

import (
	"bytes"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"
)

var _ = Describe("ExportXLSX", func() {
	var (
		records []*Receipt
		now     time.Time
		data    []byte
		err     error
	)

	BeforeEach(func() {
		now = time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	})

	JustBeforeEach(func() {
		data, err = ExportXLSX(records, Summarize(records, now))
	})

	open := func() *excelize.File {
		f, openErr := excelize.OpenReader(bytes.NewReader(data))
		Expect(openErr).NotTo(HaveOccurred())
		return f
	}

	cell := func(f *excelize.File, sheet, ref string) string {
		v, cellErr := f.GetCellValue(sheet, ref)
		Expect(cellErr).NotTo(HaveOccurred())
		return v
	}

	When("exporting a populated store", func() {
		BeforeEach(func() {
			records = []*Receipt{
				rec("A", "2024-01-01", 1000, "Food"),
				rec("A", "2024-01-02", 2000, "Food"),
				rec("B", "2024-01-03", 500, "Transport"),
			}
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should contain the three sheets", func() {
			f := open()
			defer f.Close()
			Expect(f.GetSheetList()).To(ConsistOf("Receipts", "Totals", "Categories"))
		})

		It("should write one row per record in store order", func() {
			f := open()
			defer f.Close()
			Expect(cell(f, "Receipts", "A1")).To(Equal("Date"))
			Expect(cell(f, "Receipts", "B2")).To(Equal("A"))
			Expect(cell(f, "Receipts", "C2")).To(Equal("Food"))
			Expect(cell(f, "Receipts", "D2")).To(Equal("10"))
			Expect(cell(f, "Receipts", "A4")).To(Equal("2024-01-03"))
			Expect(cell(f, "Receipts", "B4")).To(Equal("B"))
			Expect(cell(f, "Receipts", "D4")).To(Equal("5"))
		})

		It("should write the three windowed totals", func() {
			f := open()
			defer f.Close()
			Expect(cell(f, "Totals", "A2")).To(Equal("Weekly"))
			Expect(cell(f, "Totals", "B2")).To(Equal("35"))
			Expect(cell(f, "Totals", "A3")).To(Equal("Monthly"))
			Expect(cell(f, "Totals", "A4")).To(Equal("Yearly"))
		})

		It("should rank categories by total descending", func() {
			f := open()
			defer f.Close()
			Expect(cell(f, "Categories", "A2")).To(Equal("Food"))
			Expect(cell(f, "Categories", "B2")).To(Equal("30"))
			Expect(cell(f, "Categories", "A3")).To(Equal("Transport"))
			Expect(cell(f, "Categories", "B3")).To(Equal("5"))
		})
	})

	When("exporting an empty store", func() {
		BeforeEach(func() {
			records = nil
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should produce header rows only", func() {
			f := open()
			defer f.Close()
			Expect(cell(f, "Receipts", "A1")).To(Equal("Date"))
			Expect(cell(f, "Receipts", "A2")).To(BeEmpty())
			Expect(cell(f, "Categories", "A1")).To(Equal("Category"))
			Expect(cell(f, "Categories", "A2")).To(BeEmpty())
		})

		It("should still write the windowed total rows", func() {
			f := open()
			defer f.Close()
			Expect(cell(f, "Totals", "A2")).To(Equal("Weekly"))
			Expect(cell(f, "Totals", "B4")).To(Equal("0"))
		})
	})
})

var _ = Describe("ExportFilename", func() {
	It("embeds the current date", func() {
		date := time.Date(2024, 3, 7, 15, 0, 0, 0, time.UTC)
		Expect(ExportFilename(date)).To(Equal("quickreceipt-export-2024-03-07.xlsx"))
	})
})
