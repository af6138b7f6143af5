package helper

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"restaurant-directory/models"
)

const DefaultMaxUploadBytes = 32 << 20

var slotKeys = map[string]models.AssetSlot{
	"logo":         models.SlotLogo,
	"images":       models.SlotImages,
	"images[]":     models.SlotImages,
	"menuImages":   models.SlotMenuImages,
	"menuImages[]": models.SlotMenuImages,
}

// ReadRestaurantForm decodes a multipart or urlencoded restaurant request.
// Multipart parts are read in order so each slot keeps the order the client
// sent, whether an entry is a file or an already stored URL.
func ReadRestaurantForm(w http.ResponseWriter, r *http.Request, maxBytes int64) (models.RestaurantForm, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	form := models.RestaurantForm{
		Fields: map[string]string{},
		Assets: map[models.AssetSlot][]models.AssetInput{},
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := readMultipart(r, &form); err != nil {
			return form, err
		}
		return form, nil
	}

	if err := r.ParseForm(); err != nil {
		return form, formError(err)
	}
	for key, values := range r.PostForm {
		if len(values) == 0 {
			continue
		}
		if slot, ok := slotKeys[key]; ok {
			for _, v := range values {
				form.AddExistingURL(slot, v)
			}
			continue
		}
		form.Fields[key] = values[0]
	}
	return form, nil
}

func readMultipart(r *http.Request, form *models.RestaurantForm) error {
	reader, err := r.MultipartReader()
	if err != nil {
		return formError(err)
	}
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return formError(err)
		}

		name := part.FormName()
		data, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			return formError(err)
		}
		if name == "" {
			continue
		}

		slot, isSlot := slotKeys[name]
		if filename := part.FileName(); filename != "" {
			if isSlot {
				form.Assets[slot] = append(form.Assets[slot], models.NewUpload{Filename: filename, Content: data})
			}
			continue
		}
		if isSlot {
			form.AddExistingURL(slot, string(data))
			continue
		}
		if _, seen := form.Fields[name]; !seen {
			form.Fields[name] = string(data)
		}
	}
}

func formError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return models.NewValidationError("request body exceeds %d bytes", tooLarge.Limit)
	}
	return &models.ErrorValidation{Message: fmt.Sprintf("malformed form data: %v", err)}
}
