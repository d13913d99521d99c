package server

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Farmer Buddy</title></head>
<body>
<form id="upload">
  <fieldset>
    <legend>Select Language</legend>
    {{range .Languages}}<label><input type="radio" name="language" value="{{.}}"{{if eq . $.Default}} checked{{end}}> {{.}}</label>
    {{end}}
  </fieldset>
  <input type="file" name="files" accept="image/*" multiple>
  <button type="submit">Click to Upload an Image</button>
</form>
<p>File Path: <output id="path"></output></p>
<img id="preview" alt="Uploaded Image">
<pre id="response"></pre>
<script>
document.getElementById("upload").addEventListener("submit", async (e) => {
  e.preventDefault();
  const res = await fetch("/api/diagnose", {method: "POST", body: new FormData(e.target)});
  const body = await res.json();
  document.getElementById("path").textContent = body.path || "";
  document.getElementById("preview").src = body.preview || "";
  document.getElementById("response").textContent = res.ok ? (body.response || "") : body.error;
});
</script>
</body>
</html>
`))

func (s *Server) index(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	err := indexTemplate.Execute(c.Writer, struct {
		Languages []string
		Default   string
	}{
		Languages: s.languages.Languages(),
		Default:   s.languages.DefaultLanguage(),
	})
	if err != nil {
		slog.WarnContext(c.Request.Context(), "アップロードフォームの描画に失敗しました", "error", err)
	}
}
