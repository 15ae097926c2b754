package api

import (
	"image/jpeg"
	"image/png"
	"net/http"

	"github.com/fosdem/glconvert/lib/encdec"
)

type MediaResponseType string

const (
	JPEG MediaResponseType = "jpeg"
	PNG  MediaResponseType = "png"
)

// @Summary	fetch the most recently converted input or output frame
// @Router		/api/media/{frame} [get]
// @Router		/api/media/{frame}/{format} [get]
// @Tags		media
// @Param		frame	path	string				true	"input for the YUY2 frame, output for the NV12 frame"
// @Param		format	path	MediaResponseType	false	"The image type to return"
// @Success	200
// @Failure	400	{string}	string	"The requested image format is not supported"
// @Failure	404	{string}	string	"The {frame} parameter is neither input nor output"
// @Failure	424	{string}	string	"No frame has been converted yet"
// @Produce	jpeg
func (a *Api) handleMedia(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		http.Error(w, "Invalid method, only GET supported", http.StatusMethodNotAllowed)
		return
	}

	a.mediaMutex.Lock()
	var frame *encdec.Frame
	switch req.PathValue("frame") {
	case "input":
		frame = a.lastInput
	case "output":
		frame = a.lastOutput
	default:
		a.mediaMutex.Unlock()
		http.Error(w, "Frame must be input or output", http.StatusNotFound)
		return
	}
	a.mediaMutex.Unlock()

	if frame == nil {
		http.Error(w, "No frame converted yet", http.StatusFailedDependency)
		return
	}

	img, err := frame.Image()
	if err != nil {
		http.Error(w, "Could not turn this buffer into an image", http.StatusInternalServerError)
		return
	}

	switch MediaResponseType(req.PathValue("format")) {
	case "", JPEG:
		w.Header().Set("Content-Type", "image/jpeg")
		err := jpeg.Encode(w, img, &jpeg.Options{Quality: 80})
		if err != nil {
			http.Error(w, "Could not jpeg encode this frame", http.StatusInternalServerError)
			return
		}
	case PNG:
		w.Header().Set("Content-Type", "image/png")
		err := png.Encode(w, img)
		if err != nil {
			http.Error(w, "Could not png encode this frame", http.StatusInternalServerError)
			return
		}
	default:
		http.Error(w, "Unsupported format", http.StatusBadRequest)
	}
}
