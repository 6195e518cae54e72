package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

func SendJSON(w http.ResponseWriter, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	w.Header().Set("Content-Type", "application/json")
	return w.Write(payload)
}

func sendJSONOrLog(w http.ResponseWriter, log logrus.FieldLogger, v any) {
	if _, err := SendJSON(w, v); err != nil {
		log.WithError(err).WithField("response", v).Error("unable to send response")
	}
}

func sendStatus(w http.ResponseWriter, log logrus.FieldLogger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("unable to send response")
	}
}

func sendError(w http.ResponseWriter, log logrus.FieldLogger, status int, err error) {
	sendStatus(w, log, status, wrapError(err))
}

func wrapError(err error) map[string]string {
	return map[string]string{
		"error": err.Error(),
	}
}
