/*
Copyright © 2019 the GR4J authors.
This file is part of GR4J.

GR4J is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

GR4J is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with GR4J.  If not, see <http://www.gnu.org/licenses/>.
*/

package gr4jutil

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"os"

	"github.com/ctessum/gobra"
	"github.com/skratchdot/open-golang/open"
	"github.com/spatialmodel/gr4j"
	"github.com/spf13/cobra"
)

const guiAddress = "localhost:7272"

// configHandler loads the configuration file named by the "config"
// request parameter and responds with the resulting value of every
// option as JSON.
func configHandler(w http.ResponseWriter, r *http.Request) {
	configFile := r.FormValue("config")
	if configFile == "" {
		http.Error(w, "gr4jutil: missing 'config' parameter", http.StatusBadRequest)
		return
	}
	Cfg.Set("config", configFile)
	if err := setConfig(); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	values := make(map[string]interface{}, len(options))
	for _, option := range options {
		values[option.name] = Cfg.Get(option.name)
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(values); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// guiPage wraps the gobra command form. Editing the config field reloads
// the other fields from that file; the border of each field shows where
// its value came from.
var guiPage = template.Must(template.New("gr4j").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>GR4J ` + gr4j.Version + `</title>
<style>
body { font-family: sans-serif; margin: 0; }
main { max-width: 760px; margin: 2em auto; padding: 0 1em; }
dl.key dt { display: inline-block; width: 1em; height: 1em; margin-right: .3em; vertical-align: middle; }
dl.key dd { display: inline; margin: 0 1em 0 0; }
div[id^="gobra-"] blockquote { border-left: 3px solid #ccc; margin: .3em; padding-left: 5px; color: #444; font-size: 80%; }
div[id^="gobra-"] input { font-family: monospace; width: 55%; margin-left: .2em; }
[data-state=error] { border: 1px solid #c35; }
[data-state=file] { border: 1px solid #3a5; }
[data-state=user] { border: 1px solid #35c; }
</style>
</head>
<body>
<main>
<h1>GR4J rainfall-runoff model</h1>
<dl class="key">
<dt data-state="file"></dt><dd>from configuration file</dd>
<dt data-state="user"></dt><dd>entered here</dd>
<dt data-state="error"></dt><dd>configuration error</dd>
</dl>
{{.}}
</main>
<script>
const fields = [...document.querySelectorAll("[data-name]")];
const input = name => {
	const f = fields.find(f => f.dataset.name == name);
	return f ? f.children[0] : null;
};
fields.forEach(f => f.children[0].addEventListener("input", () => f.children[0].dataset.state = "user"));

const config = input("config");
let pending;
config.addEventListener("input", () => {
	clearTimeout(pending);
	pending = setTimeout(reload, 300);
});

async function reload() {
	const res = await fetch("/setConfig?config=" + encodeURIComponent(config.value));
	if (!res.ok) {
		config.dataset.state = "error";
		config.title = await res.text();
		return;
	}
	config.title = "";
	config.dataset.state = "file";
	const values = await res.json();
	for (const name in values) {
		const el = input(name);
		if (!el || name == "config") continue;
		const v = typeof values[name] == "string" ? values[name] : JSON.stringify(values[name]);
		if (el.value != v) {
			el.value = v;
			el.dataset.state = "file";
		}
	}
}
</script>
</body>
</html>
`))

// StartWebServer starts a browser interface to the command tree.
func StartWebServer() {
	log := newLogger(os.Stdout)
	if err := setConfig(); err != nil {
		log.WithError(err).Warn("ignoring configuration file")
	}

	http.HandleFunc("/setConfig", configHandler)

	for _, cmd := range []*cobra.Command{Root, versionCmd, runCmd, summarizeCmd} {
		cmd.SilenceUsage = true
	}

	server := gobra.Server{Root: Root, ServerAddress: guiAddress, AllowCORS: false, HTML: guiPage}
	log.WithField("address", guiAddress).Info("Server starting...")
	if err := open.Run("http://" + guiAddress); err != nil {
		log.WithError(err).Warn("could not open browser")
	}
	fmt.Println("If not opened automatically, please visit http://" + guiAddress)
	server.Start()
}
