package email

const digestTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<style type="text/css">
  body { margin: 0; padding: 0; background-color: #f8fafc; font-family: system-ui, -apple-system, 'Segoe UI', Roboto, sans-serif; }
  .container { max-width: 600px; margin: 0 auto; background-color: #ffffff; }
  .header { background-color: #2563eb; color: #ffffff; padding: 24px; }
  .header h1 { margin: 0; font-size: 22px; }
  .group { padding: 16px 24px; border-bottom: 1px solid #e2e8f0; }
  .group h2 { font-size: 17px; color: #1e293b; margin: 0 0 12px 0; }
  .article { margin-bottom: 16px; }
  .article a { color: #3b82f6; text-decoration: none; font-weight: 600; }
  .article p { margin: 4px 0 0 0; color: #475569; font-size: 14px; }
  .article img { max-width: 100%; height: auto; border-radius: 4px; margin-top: 8px; }
  .footer { padding: 16px 24px; color: #94a3b8; font-size: 12px; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h1>{{.Title}}</h1>
  </div>
  {{range .Groups}}
  <div class="group">
    <h2>{{.Label}}</h2>
    {{range .Articles}}
    <div class="article">
      <a href="{{.Link}}">{{.Title}}</a>
      {{with .Summary}}<p>{{.}}</p>{{end}}
      {{with .ImageURL}}<img src="{{.}}" alt="">{{end}}
    </div>
    {{end}}
  </div>
  {{end}}
  <div class="footer">
    You are receiving this because {{.DigestType}} digests are enabled for {{.Email}}.
  </div>
</div>
</body>
</html>`

const notificationTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style type="text/css">
  body { margin: 0; padding: 0; background-color: #f8fafc; font-family: system-ui, -apple-system, 'Segoe UI', Roboto, sans-serif; }
  .container { max-width: 600px; margin: 0 auto; background-color: #ffffff; }
  .header { background-color: #dc2626; color: #ffffff; padding: 16px 24px; }
  .header h1 { margin: 0; font-size: 18px; }
  .body { padding: 16px 24px; }
  .body a { color: #3b82f6; text-decoration: none; font-weight: 600; font-size: 17px; }
  .body p { color: #475569; font-size: 14px; }
  .categories { color: #94a3b8; font-size: 12px; padding: 0 24px 16px 24px; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h1>Breaking: {{.Article.Title}}</h1>
  </div>
  <div class="body">
    <a href="{{.Article.Link}}">{{.Article.Title}}</a>
    {{with .Article.Summary}}<p>{{.}}</p>{{end}}
  </div>
  <div class="categories">Matched: {{.CategoryList}}</div>
</div>
</body>
</html>`
