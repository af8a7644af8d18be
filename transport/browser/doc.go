// Package browser is a transport backend that runs every exchange as a
// real XMLHttpRequest inside headless Chrome, driven through chromedp.
//
// The Transport is a component: Start launches the browser and Stop shuts
// it down. Each Send opens a tab on Config.Origin, so same-origin rules,
// CORS and cookie handling are the browser's own. Request and response
// bodies cross the DevTools protocol base64-encoded.
package browser
