package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"sort"
	"strconv"
	"strings"

	"github.com/stemsi/intake-backend/internal/model"
)

// attachmentPrefix marks multipart file parts relayed to the operator chat.
const attachmentPrefix = "file_"

var (
	errTooManyFiles   = errors.New("too many files")
	errFileTooLarge   = errors.New("file too large")
	errFileUnreadable = errors.New("file unreadable")
)

// readAttachments collects every "file_*" part in index order.
func readAttachments(form *multipart.Form, maxFiles int, maxBytes int64) ([]model.Attachment, error) {
	if form == nil {
		return nil, nil
	}

	var keys []string
	count := 0
	for key, headers := range form.File {
		if strings.HasPrefix(key, attachmentPrefix) {
			keys = append(keys, key)
			count += len(headers)
		}
	}
	if count == 0 {
		return nil, nil
	}
	if maxFiles > 0 && count > maxFiles {
		return nil, fmt.Errorf("%w: %d (max %d)", errTooManyFiles, count, maxFiles)
	}
	sort.Slice(keys, func(i, j int) bool { return attachmentLess(keys[i], keys[j]) })

	out := make([]model.Attachment, 0, count)
	for _, key := range keys {
		for _, fh := range form.File[key] {
			if maxBytes > 0 && fh.Size > maxBytes {
				return nil, fmt.Errorf("%w: %s is %d bytes (max %d)", errFileTooLarge, fh.Filename, fh.Size, maxBytes)
			}
			data, err := readPart(fh)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", errFileUnreadable, fh.Filename, err)
			}
			out = append(out, model.Attachment{
				FileName:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Data:        data,
			})
		}
	}
	return out, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// attachmentLess orders file_2 before file_10; non-numeric suffixes sort last.
func attachmentLess(a, b string) bool {
	na, errA := strconv.Atoi(strings.TrimPrefix(a, attachmentPrefix))
	nb, errB := strconv.Atoi(strings.TrimPrefix(b, attachmentPrefix))
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}
