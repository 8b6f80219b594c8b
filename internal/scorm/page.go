package scorm

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/yuin/goldmark"
)

// PageRenderer renders the index.html runtime page.
type PageRenderer struct {
	Markdown goldmark.Markdown
	Hash     func(string) (string, error)
}

// NewPageRenderer returns a renderer using goldmark and SHA-256.
func NewPageRenderer() *PageRenderer {
	return &PageRenderer{
		Markdown: NewMarkdown(),
		Hash:     HashCode,
	}
}

// pageData carries pre-escaped values only. The template does no escaping
// of its own.
type pageData struct {
	Title     string
	Gated     bool
	HasFrame  bool
	Mode      EmbedMode
	APIScript string

	ContentURL    string
	ContentMarkup string

	Logo            string
	Prompt          string
	ButtonText      string
	HeaderBgColor   string
	HeaderTextColor string
	ButtonBgColor   string
	ButtonTextColor string
	EndMessageHTML  string

	CodeHash   string
	AlertRight string
	AlertWrong string
}

var pageTmpl = template.Must(template.New("page").Parse(pageTemplate))

// Render produces the complete HTML document for cfg. Hashing or Markdown
// failures are returned as errors.
func (r *PageRenderer) Render(ctx context.Context, cfg PackageConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	md := r.Markdown
	if md == nil {
		md = NewMarkdown()
	}
	hash := r.Hash
	if hash == nil {
		hash = HashCode
	}

	runtime := RuntimeFor(cfg.Version())
	mode := ParseEmbedTarget(cfg.EmbeddedContent)

	data := pageData{
		Title:     EscapeHTML(cfg.DisplayTitle()),
		Gated:     cfg.Gated(),
		Mode:      mode,
		APIScript: runtime.Script,
	}
	data.HasFrame = data.Gated || mode != EmbedNone

	switch mode {
	case EmbedURL:
		data.ContentURL = JSString(strings.TrimSpace(cfg.EmbeddedContent))
	case EmbedMarkup:
		data.ContentMarkup = TemplateLiteral(cfg.EmbeddedContent)
	}

	if data.Gated {
		// The page trims the learner's entry before hashing it.
		digest, err := hash(strings.TrimSpace(cfg.CompletionCode))
		if err != nil {
			return "", fmt.Errorf("hashing completion code: %w", err)
		}
		endHTML, err := RenderMarkdown(md, orDefault(cfg.EndMessage, DefaultEndMessage))
		if err != nil {
			return "", fmt.Errorf("rendering end message: %w", err)
		}

		data.CodeHash = JSString(digest)
		data.EndMessageHTML = endHTML
		data.AlertRight = JSString(orDefault(cfg.AlertMessageRight, DefaultAlertRight))
		data.AlertWrong = JSString(orDefault(cfg.AlertMessageWrong, DefaultAlertWrong))
		data.Prompt = EscapeHTML(orDefault(cfg.CodePromptMessage, DefaultCodePrompt))
		data.ButtonText = EscapeHTML(orDefault(cfg.ButtonText, DefaultButtonText))
		data.HeaderBgColor = CSSColor(cfg.HeaderBgColor, DefaultHeaderBgColor)
		data.HeaderTextColor = CSSColor(cfg.HeaderTextColor, DefaultHeaderTextColor)
		data.ButtonBgColor = CSSColor(cfg.ButtonBgColor, DefaultButtonBgColor)
		data.ButtonTextColor = CSSColor(cfg.ButtonTextColor, DefaultButtonTextColor)
		if isImageDataURI(cfg.Logo) {
			data.Logo = EscapeHTML(strings.TrimSpace(cfg.Logo))
		}
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing page template: %w", err)
	}
	return buf.String(), nil
}

func isImageDataURI(s string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(s)), "data:image/")
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <style>
    body, html {
      margin: 0;
      padding: 0;
      height: 100%;
      font-family: Arial, sans-serif;
    }
    .container {
      display: flex;
      flex-direction: column;
      height: 100%;
    }
{{- if .Gated}}
    .header {
      background-color: {{.HeaderBgColor}};
      color: {{.HeaderTextColor}};
      padding: 10px;
      display: flex;
      align-items: center;
      gap: 10px;
      border-bottom: 1px solid #ddd;
    }
    .header .logo {
      max-height: 40px;
    }
    .header input {
      padding: 8px;
      border: 1px solid #ccc;
      border-radius: 4px;
    }
    .header button {
      padding: 8px 16px;
      background-color: {{.ButtonBgColor}};
      color: {{.ButtonTextColor}};
      border: none;
      border-radius: 4px;
      cursor: pointer;
    }
    .header button:hover {
      opacity: 0.85;
    }
    .header button:disabled {
      opacity: 0.5;
      cursor: not-allowed;
    }
    .completion-message {
      padding: 20px;
      text-align: center;
    }
    .alert {
      padding: 10px;
      margin: 10px;
      border-radius: 4px;
    }
    .success {
      background-color: #d4edda;
      border: 1px solid #c3e6cb;
      color: #155724;
    }
    .error {
      background-color: #f8d7da;
      border: 1px solid #f5c6cb;
      color: #721c24;
    }
{{- end}}
    .content {
      flex-grow: 1;
      width: 100%;
      border: none;
    }
    .placeholder {
      margin: auto;
      padding: 20px;
      max-width: 480px;
      text-align: center;
      color: #555;
      border: 1px dashed #bbb;
      border-radius: 4px;
    }
    .hidden {
      display: none;
    }
  </style>
</head>
<body>
  <div class="container">
{{- if .Gated}}
    <div class="header">
{{- if .Logo}}
      <img class="logo" src="{{.Logo}}" alt="">
{{- end}}
      <span class="prompt">{{.Prompt}}</span>
      <input type="text" id="completion-code" autocomplete="off">
      <button id="validate-btn" type="button">{{.ButtonText}}</button>
    </div>

    <div id="alert" class="alert hidden" role="status"></div>

    <div id="completion-section" class="completion-message hidden">
      <div id="end-message">{{.EndMessageHTML}}</div>
    </div>
{{- end}}
{{- if .HasFrame}}

    <iframe id="content-frame" class="content" title="{{.Title}}"></iframe>
{{- else}}

    <div class="placeholder">
      <p>No content has been configured for this module.</p>
    </div>
{{- end}}
  </div>

  <script>
{{.APIScript}}
  </script>
  <script>
    (function () {
      var contentFrame = document.getElementById('content-frame');

      function loadContent() {
        if (!contentFrame) return;
{{- if eq .Mode "url"}}
        contentFrame.src = {{.ContentURL}};
{{- else if eq .Mode "markup"}}
        var doc = contentFrame.contentDocument || contentFrame.contentWindow.document;
        doc.open();
        doc.write(` + "`{{.ContentMarkup}}`" + `);
        doc.close();
{{- end}}
      }

      if (document.readyState === 'loading') {
        window.addEventListener('DOMContentLoaded', loadContent);
      } else {
        loadContent();
      }
{{- if .Gated}}

      var expectedHash = {{.CodeHash}};
      var successMessage = {{.AlertRight}};
      var failureMessage = {{.AlertWrong}};
      var completed = false;
      var alertTimer = null;
      var completionSection = document.getElementById('completion-section');
      var validateBtn = document.getElementById('validate-btn');
      var codeInput = document.getElementById('completion-code');
      var alertEl = document.getElementById('alert');

      function sha256Hex(text) {
        var data = new TextEncoder().encode(text);
        return crypto.subtle.digest('SHA-256', data).then(function (digest) {
          return Array.from(new Uint8Array(digest)).map(function (b) {
            return b.toString(16).padStart(2, '0');
          }).join('');
        });
      }

      function showAlert(message, isSuccess) {
        if (alertTimer) {
          clearTimeout(alertTimer);
          alertTimer = null;
        }
        alertEl.textContent = message;
        alertEl.classList.remove('hidden', 'success', 'error');
        alertEl.classList.add(isSuccess ? 'success' : 'error');
        if (!isSuccess) {
          alertTimer = setTimeout(function () {
            alertEl.classList.add('hidden');
          }, 3000);
        }
      }

      function validate() {
        if (completed) return;
        var entered = codeInput.value.trim();
        sha256Hex(entered).then(function (digest) {
          if (completed) return;
          if (digest === expectedHash) {
            completed = true;
            showAlert(successMessage, true);
            if (contentFrame) contentFrame.classList.add('hidden');
            completionSection.classList.remove('hidden');
            validateBtn.disabled = true;
            codeInput.disabled = true;
            completeSCO();
          } else {
            showAlert(failureMessage, false);
          }
        }, function (err) {
          console.error('Could not check the code', err);
          showAlert(failureMessage, false);
        });
      }

      validateBtn.addEventListener('click', validate);
      codeInput.addEventListener('keydown', function (e) {
        if (e.key === 'Enter') validate();
      });
{{- end}}
    })();
  </script>
</body>
</html>
`
