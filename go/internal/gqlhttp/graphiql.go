package gqlhttp

import (
	"html/template"
	"net/http"
)

var graphiqlPage = template.Must(template.New("graphiql").Parse(`<!DOCTYPE html>
<html>
	<head>
		<title>teamgraph</title>
		<link href="https://unpkg.com/graphiql@3.0.6/graphiql.min.css" rel="stylesheet" />
		<script crossorigin src="https://unpkg.com/react@18/umd/react.production.min.js"></script>
		<script crossorigin src="https://unpkg.com/react-dom@18/umd/react-dom.production.min.js"></script>
		<script crossorigin src="https://unpkg.com/graphiql@3.0.6/graphiql.min.js"></script>
	</head>
	<body style="width: 100%; height: 100%; margin: 0; overflow: hidden;">
		<div id="graphiql" style="height: 100vh;">Loading...</div>
		<script>
			const fetcher = GraphiQL.createFetcher({ url: {{ .Endpoint }} });
			ReactDOM.createRoot(document.getElementById("graphiql")).render(
				React.createElement(GraphiQL, { fetcher: fetcher })
			);
		</script>
	</body>
</html>
`))

func renderGraphiQL(w http.ResponseWriter, endpoint string) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return graphiqlPage.Execute(w, struct{ Endpoint string }{Endpoint: endpoint})
}
