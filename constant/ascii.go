package constant

// AsciiArtLogo is the application's banner shown in the root command help.
const AsciiArtLogo = `
     _                                 _
 ___| |_ _ __ ___  __ _ _ __ ___  _ __ | | __ _ _   _
/ __| __| '__/ _ \/ _' | '_ ' _ \| '_ \| |/ _' | | | |
\__ \ |_| | |  __/ (_| | | | | | | |_) | | (_| | |_| |
|___/\__|_|  \___|\__,_|_| |_| |_| .__/|_|\__,_|\__, |
                                 |_|            |___/`
