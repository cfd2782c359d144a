package receipt

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/eXclipsea/QuickReceipt/internal/scanning"
)

// multipartUpload builds a multipart request body with a single file part
func multipartUpload(filename string, data []byte) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	Expect(err).NotTo(HaveOccurred())
	_, err = part.Write(data)
	Expect(err).NotTo(HaveOccurred())
	Expect(writer.Close()).To(Succeed())
	return body, writer.FormDataContentType()
}

var _ = Describe("Server", func() {
	var (
		store   *mockStore
		scanner *mockScanner
		archive *mockArchive
		server  *Server
		rr      *httptest.ResponseRecorder
	)

	BeforeEach(func() {
		store = &mockStore{}
		scanner = &mockScanner{
			data: &scanning.ReceiptData{
				MerchantName: "SuperMart",
				Date:         "2024-01-15",
				TotalAmount:  12.99,
				Category:     "Groceries",
			},
		}
		archive = newMockArchive()
		service := NewServiceWithDeps(
			store,
			scanner,
			archive,
			&StorePriceSearch{Delay: 0},
			&fixedIDGenerator{ids: []string{"id-1"}},
			&fixedTimeSource{t: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		)
		server = NewServer(service, BasicAuth{})
		rr = httptest.NewRecorder()
	})

	Describe("POST /api/receipts", func() {
		When("the upload scans successfully", func() {
			JustBeforeEach(func() {
				body, contentType := multipartUpload("receipt.png", pngBytes())
				req := httptest.NewRequest("POST", "/api/receipts", body)
				req.Header.Set("Content-Type", contentType)
				server.ServeHTTP(rr, req)
			})

			It("responds 201", func() {
				Expect(rr.Code).To(Equal(http.StatusCreated))
			})

			It("returns the fresh record so the client can show it", func() {
				var record Receipt
				Expect(json.Unmarshal(rr.Body.Bytes(), &record)).To(Succeed())
				Expect(record.ID).To(Equal("id-1"))
				Expect(record.MerchantName).To(Equal("SuperMart"))
				Expect(record.AmountCents).To(Equal(int64(1299)))
			})

			It("appends the record to the store", func() {
				Expect(store.records).To(HaveLen(1))
			})
		})

		When("extraction fails", func() {
			JustBeforeEach(func() {
				scanner.scanErr = scanning.ErrParseFailure
				body, contentType := multipartUpload("receipt.png", pngBytes())
				req := httptest.NewRequest("POST", "/api/receipts", body)
				req.Header.Set("Content-Type", contentType)
				server.ServeHTTP(rr, req)
			})

			It("responds 422", func() {
				Expect(rr.Code).To(Equal(http.StatusUnprocessableEntity))
			})

			It("returns the single user-facing message", func() {
				var resp map[string]string
				Expect(json.Unmarshal(rr.Body.Bytes(), &resp)).To(Succeed())
				Expect(resp["error"]).To(Equal("Failed to scan receipt. Please try again."))
			})

			It("appends nothing to the store", func() {
				Expect(store.records).To(BeEmpty())
			})
		})

		When("no file is provided", func() {
			JustBeforeEach(func() {
				body := &bytes.Buffer{}
				writer := multipart.NewWriter(body)
				Expect(writer.Close()).To(Succeed())
				req := httptest.NewRequest("POST", "/api/receipts", body)
				req.Header.Set("Content-Type", writer.FormDataContentType())
				server.ServeHTTP(rr, req)
			})

			It("responds 400", func() {
				Expect(rr.Code).To(Equal(http.StatusBadRequest))
			})
		})
	})

	Describe("GET /api/receipts", func() {
		When("the store is empty", func() {
			JustBeforeEach(func() {
				server.ServeHTTP(rr, httptest.NewRequest("GET", "/api/receipts", nil))
			})

			It("responds with an empty JSON array", func() {
				Expect(rr.Code).To(Equal(http.StatusOK))
				Expect(rr.Body.String()).To(MatchJSON("[]"))
			})
		})

		When("the store has records", func() {
			JustBeforeEach(func() {
				store.records = []*Receipt{
					rec("A", "2024-01-01", 1000, "Food"),
					rec("B", "2024-01-02", 2000, "Food"),
				}
				server.ServeHTTP(rr, httptest.NewRequest("GET", "/api/receipts", nil))
			})

			It("lists them most recent first", func() {
				var records []*Receipt
				Expect(json.Unmarshal(rr.Body.Bytes(), &records)).To(Succeed())
				Expect(records).To(HaveLen(2))
				Expect(records[0].MerchantName).To(Equal("B"))
			})
		})
	})

	Describe("GET /api/analytics", func() {
		JustBeforeEach(func() {
			store.records = []*Receipt{
				rec("A", time.Now().Format("2006-01-02"), 1000, "Food"),
			}
			server.ServeHTTP(rr, httptest.NewRequest("GET", "/api/analytics", nil))
		})

		It("returns the rollup", func() {
			Expect(rr.Code).To(Equal(http.StatusOK))
			var summary Summary
			Expect(json.Unmarshal(rr.Body.Bytes(), &summary)).To(Succeed())
			Expect(summary.WeeklyCents).To(Equal(int64(1000)))
			Expect(summary.TopCategory).To(Equal("Food"))
			Expect(summary.MerchantCounts).To(HaveKeyWithValue("A", 1))
		})
	})

	Describe("GET /api/export", func() {
		JustBeforeEach(func() {
			server.ServeHTTP(rr, httptest.NewRequest("GET", "/api/export", nil))
		})

		It("streams an XLSX attachment with a date-stamped filename", func() {
			Expect(rr.Code).To(Equal(http.StatusOK))
			Expect(rr.Header().Get("Content-Type")).To(Equal("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"))
			Expect(rr.Header().Get("Content-Disposition")).To(ContainSubstring("quickreceipt-export-"))
			Expect(rr.Body.Len()).To(BeNumerically(">", 0))
		})
	})

	Describe("GET /api/store-prices", func() {
		JustBeforeEach(func() {
			server.ServeHTTP(rr, httptest.NewRequest("GET", "/api/store-prices?item=milk", nil))
		})

		It("returns the mock dataset", func() {
			Expect(rr.Code).To(Equal(http.StatusOK))
			var prices []StorePrice
			Expect(json.Unmarshal(rr.Body.Bytes(), &prices)).To(Succeed())
			Expect(prices).To(HaveLen(4))
		})
	})

	Describe("GET /api/receipts/{id}/image", func() {
		When("the image exists", func() {
			JustBeforeEach(func() {
				archive.saved["id-1"] = []byte("jpeg bytes")
				server.ServeHTTP(rr, httptest.NewRequest("GET", "/api/receipts/id-1/image", nil))
			})

			It("serves it as JPEG", func() {
				Expect(rr.Code).To(Equal(http.StatusOK))
				Expect(rr.Header().Get("Content-Type")).To(Equal("image/jpeg"))
				Expect(rr.Body.Bytes()).To(Equal([]byte("jpeg bytes")))
			})
		})

		When("the image is missing", func() {
			JustBeforeEach(func() {
				server.ServeHTTP(rr, httptest.NewRequest("GET", "/api/receipts/nope/image", nil))
			})

			It("responds 404", func() {
				Expect(rr.Code).To(Equal(http.StatusNotFound))
			})
		})
	})

	Describe("basic auth", func() {
		BeforeEach(func() {
			service := NewServiceWithDeps(
				store,
				scanner,
				archive,
				&StorePriceSearch{Delay: 0},
				&fixedIDGenerator{ids: []string{"id-1"}},
				&fixedTimeSource{t: time.Now()},
			)
			server = NewServer(service, BasicAuth{Username: "user", Password: "pass"})
		})

		When("no credentials are supplied", func() {
			JustBeforeEach(func() {
				server.ServeHTTP(rr, httptest.NewRequest("GET", "/api/receipts", nil))
			})

			It("responds 401", func() {
				Expect(rr.Code).To(Equal(http.StatusUnauthorized))
			})
		})

		When("valid credentials are supplied", func() {
			JustBeforeEach(func() {
				req := httptest.NewRequest("GET", "/api/receipts", nil)
				req.SetBasicAuth("user", "pass")
				server.ServeHTTP(rr, req)
			})

			It("responds 200", func() {
				Expect(rr.Code).To(Equal(http.StatusOK))
			})
		})
	})
})
