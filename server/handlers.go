package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/sambeau/measure/pkg/measure/catalog"
	"github.com/sambeau/measure/pkg/measure/converter"
)

// apiResponse is the JSON body of /api/convert and /api/ask. Classified
// conversion failures are reported with status 200 and ok=false.
type apiResponse struct {
	OK         bool                  `json:"ok"`
	Message    string                `json:"message"`
	Symbol     string                `json:"symbol,omitempty"`
	Code       string                `json:"code,omitempty"`
	Hints      []string              `json:"hints,omitempty"`
	Conversion *converter.Conversion `json:"conversion,omitempty"`
}

type categoryInfo struct {
	Name  string   `json:"name"`
	Units []string `json:"units"`
}

func (s *Server) handleHelp(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !allowMethods(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(s.helpPage)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	cats := catalog.Categories()
	body := make([]categoryInfo, len(cats))
	for i, c := range cats {
		body[i] = categoryInfo{Name: string(c), Units: catalog.Units(c)}
	}
	s.writeJSON(w, http.StatusOK, body)
}

// handleConvert serves the manual path: quantity, category, from, to.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodPost) {
		return
	}

	params := make(map[string]string, 4)
	for _, name := range []string{"quantity", "category", "from", "to"} {
		v := strings.TrimSpace(r.FormValue(name))
		if v == "" {
			s.writeBadRequest(w, "missing parameter: "+name)
			return
		}
		params[name] = v
	}

	quantity, err := strconv.ParseFloat(params["quantity"], 64)
	if err != nil {
		s.writeBadRequest(w, "quantity is not a number: "+params["quantity"])
		return
	}

	s.writeMessage(w, s.conv.ConvertUnits(quantity, params["category"], params["from"], params["to"]))
}

// handleAsk serves the assistant path: q holds the free-text query.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	q := r.FormValue("q")
	if strings.TrimSpace(q) == "" {
		s.writeBadRequest(w, "missing parameter: q")
		return
	}
	s.writeMessage(w, s.conv.Interpret(q))
}

func (s *Server) writeMessage(w http.ResponseWriter, msg converter.Message) {
	resp := apiResponse{
		OK:         msg.OK(),
		Message:    msg.Text,
		Code:       msg.Code(),
		Hints:      msg.Hints(),
		Conversion: msg.Conversion,
	}
	if s.conv.Settings().Symbols {
		resp.Symbol = msg.Symbol()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeBadRequest(w http.ResponseWriter, message string) {
	s.writeJSON(w, http.StatusBadRequest, apiResponse{Message: message, Code: "HTTP-400"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		s.logError("failed to marshal JSON: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(data)
}

// allowMethods writes 405 with an Allow header unless r uses one of methods.
func allowMethods(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	return false
}
