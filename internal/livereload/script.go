package livereload

// Path is where the browser script opens its socket.
const Path = "/livereload"

// ClientScript is embedded in every page the server composes.
const ClientScript = `<script>
  (function () {
    const scheme = window.location.protocol === 'https:' ? 'wss://' : 'ws://';
    const ws = new WebSocket(scheme + window.location.host + '` + Path + `');
    ws.onmessage = (event) => {
      if (event.data === '` + UpdateMessage + `') {
        window.location.reload();
      }
    };
    ws.onopen = () => {
      console.log('WebSocket connection established');
    };
    ws.onerror = (error) => {
      console.error('WebSocket error:', error);
    };
    ws.onclose = () => {
      console.log('WebSocket connection closed');
    };
  })();
</script>`
