package scanning

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
	"golang.org/x/image/draw"
)

const (
	// maxEdge is the upper bound on the longer edge of a normalized image.
	maxEdge = 1200
	// jpegQuality is the lossy re-encode quality (0.8 on a 0-1 scale).
	jpegQuality = 80
)

// receiptScanPrompt is the shared prompt used by all LLM providers for scanning receipts
const receiptScanPrompt = `You are analyzing a receipt or invoice document. Carefully read all text in the image and extract the following information:

1. **Merchant Name**: Look for the merchant name, store name, or business name at the top of the receipt. This is usually the largest text or in a header. Examples: "Walmart", "CVS Pharmacy", "Walgreens", "Target".

2. **Date**: Find the transaction date, purchase date, or invoice date on the receipt. Convert it to ISO 8601 format (YYYY-MM-DD). Look for dates near the top or bottom of the receipt. Common formats: MM/DD/YYYY, DD/MM/YYYY, or written dates.

3. **Total Amount**: Find the final total, grand total, or amount due. This is usually at the bottom of the receipt, often labeled as "TOTAL", "Amount Due", "Grand Total", or similar. Extract only the numeric value (e.g., 42.75 for $42.75).

4. **Category**: Assign a short spending category that fits the purchase, such as "Groceries", "Dining", "Transport", "Pharmacy", "Electronics". Use your judgement; any sensible label is acceptable.

Return ONLY valid JSON in this exact format:
{
  "merchantName": "Store Name",
  "date": "YYYY-MM-DD",
  "totalAmount": 0.00,
  "category": "Category",
  "items": ["line item one", "line item two"],
  "location": "City or address if visible"
}

Important:
- merchantName, date, totalAmount and category are required
- The date must be in YYYY-MM-DD format
- The totalAmount must be a number (not a string), representing dollars and cents
- items and location are optional; omit them if not visible on the receipt
- Do not include any text before or after the JSON
- Do not use markdown code blocks`

// pdfToImage renders the first page of a PDF (most receipts are single page)
func pdfToImage(pdfData []byte) (image.Image, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}
	return img, nil
}

// decodeImage decodes raw receipt bytes into an image.Image.
// HEIC/HEIF (common on iPhones) is handled separately because Go's standard
// image package doesn't support it.
func decodeImage(data []byte, mimeType string) (image.Image, error) {
	if mimeType == "application/pdf" {
		return pdfToImage(data)
	}

	if isHEICFormat(data) || isHEICMimeType(mimeType) {
		img, err := heic.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding HEIC/HEIF image: %w", err)
		}
		return img, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

// isHEICFormat checks if the image data is in HEIC/HEIF format
// HEIC files carry an ftyp box at offset 4 with a HEIC-related brand
func isHEICFormat(data []byte) bool {
	if len(data) < 12 {
		return false
	}
	if string(data[4:8]) != "ftyp" {
		return false
	}
	brand := string(data[8:12])
	return brand == "heic" || brand == "heif" || brand == "mif1" || brand == "msf1"
}

// isHEICMimeType checks if the MIME type indicates HEIC/HEIF format
func isHEICMimeType(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	return mimeType == "image/heic" || mimeType == "image/heif" ||
		strings.Contains(mimeType, "heic") || strings.Contains(mimeType, "heif")
}

// targetBounds clamps the longer edge to maxEdge preserving aspect ratio.
// Images already within bounds keep their dimensions (never upscale).
func targetBounds(w, h int) (int, int) {
	if w <= maxEdge && h <= maxEdge {
		return w, h
	}
	if w >= h {
		return maxEdge, int(float64(h)*float64(maxEdge)/float64(w) + 0.5)
	}
	return int(float64(w)*float64(maxEdge)/float64(h) + 0.5), maxEdge
}

// Normalize decodes a captured receipt, clamps its longer edge to maxEdge
// preserving aspect ratio, and re-encodes it as JPEG at jpegQuality.
// The result is always a non-empty, valid JPEG payload. Undecodable input
// fails with an error wrapping ErrImageDecode.
func Normalize(data []byte, contentType string) ([]byte, error) {
	mimeType := strings.ToLower(strings.TrimSpace(contentType))
	if mimeType == "" {
		mimeType = "image/jpeg" // default
	}

	img, err := decodeImage(data, mimeType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	tw, th := targetBounds(w, h)
	if tw != w || th != h {
		scaled := image.NewRGBA(image.Rect(0, 0, tw, th))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Src, nil)
		img = scaled
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}
	return buf.Bytes(), nil
}
